package app_test

import (
	"errors"
	"fmt"
	"testing"

	"toilanguoisaigon/internal/app"
	"toilanguoisaigon/internal/domain"
)

func TestExtractObjects_FencedArray(t *testing.T) {
	raw := "Đây là kết quả:\n```json\n[{\"name\":\"A\"},{\"name\":\"B\"}]\n```\nHết."
	objs, err := app.ExtractObjects(raw)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(objs) != 2 || objs[0]["name"] != "A" || objs[1]["name"] != "B" {
		t.Fatalf("unexpected objs: %+v", objs)
	}
}

func TestExtractObjects_BareObject(t *testing.T) {
	objs, err := app.ExtractObjects(`{"name":"Solo","found":true}`)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(objs) != 1 || objs[0]["name"] != "Solo" {
		t.Fatalf("unexpected objs: %+v", objs)
	}
}

func TestExtractObjects_TruncatedTail(t *testing.T) {
	// Five elements, output cut mid-fifth: the four complete ones survive,
	// the partial one is dropped whole.
	raw := "```json\n["
	for i := 1; i <= 4; i++ {
		raw += fmt.Sprintf("{\"name\":\"Quán %d\",\"district\":\"Quận %d\"},", i, i)
	}
	raw += `{"name":"Quán 5","dist`
	objs, err := app.ExtractObjects(raw)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(objs) != 4 {
		t.Fatalf("len = %d, want 4", len(objs))
	}
	if objs[3]["name"] != "Quán 4" {
		t.Fatalf("last survivor = %v", objs[3]["name"])
	}
}

func TestExtractObjects_UnterminatedFence(t *testing.T) {
	objs, err := app.ExtractObjects("```json\n[{\"name\":\"X\"}]")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("len = %d", len(objs))
	}
}

func TestExtractObjects_PrefersLargestBlock(t *testing.T) {
	raw := "```json\n[{\"name\":\"only\"}]\n```\ntext\n```json\n[{\"name\":\"a\"},{\"name\":\"b\"}]\n```"
	objs, err := app.ExtractObjects(raw)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("len = %d, want 2", len(objs))
	}
}

func TestExtractObjects_EmptyArray(t *testing.T) {
	objs, err := app.ExtractObjects("```json\n[]\n```")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(objs) != 0 {
		t.Fatalf("len = %d, want 0", len(objs))
	}
}

func TestExtractObjects_Garbage(t *testing.T) {
	_, err := app.ExtractObjects("Xin lỗi, tôi không thể tìm thấy địa điểm nào.")
	if !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("err = %v, want ErrExtraction", err)
	}
}
