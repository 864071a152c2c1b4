package app

import "fmt"

// Prompts are Vietnamese: the model grounds against Vietnamese map
// listings and the site's editorial voice is a Saigon food blogger.

func crawlPrompt(query string) string {
	return fmt.Sprintf(`Tìm danh sách các địa điểm ẩm thực ở TP. Hồ Chí Minh cho truy vấn: %q.

Với mỗi địa điểm, cung cấp đầy đủ:
- Tên chính xác từ Google Maps
- Địa chỉ đầy đủ
- Quận/huyện
- Mô tả ngắn hấp dẫn (2-3 câu, tiếng Việt, giọng food blogger)
- Số điện thoại (nếu có)
- Giờ mở cửa (nếu có)
- Mức giá: $ (<50k), $$ (50-150k), $$$ (150-500k), $$$$ (>500k VND/người)
- Điểm Google Maps, số review, tóm tắt review tiếng Việt (NẾU KHÔNG CÓ review thật thì set null, KHÔNG tự bịa), 3-5 keyword nổi bật

Trả kết quả JSON array:
[{"name":"","address":"","district":"","description":"","phone_number":null,"opening_hours":null,"price_range":"$$","google_rating":4.5,"google_review_count":500,"google_review_summary":"","google_highlights":[]}]

CHỈ JSON, không markdown.`, query)
}

func enrichPrompt(name, address, district string) string {
	return fmt.Sprintf(`Tìm thông tin chi tiết về địa điểm ẩm thực/quán này ở TP. Hồ Chí Minh trên Google Maps:

Tên: %q
Địa chỉ: %q
Quận: %q

HƯỚNG DẪN TÌM KIẾM:
- Tìm trên Google Maps bằng tên chính xác trước
- Nếu không tìm thấy, thử các biến thể: bỏ dấu tiếng Việt, thêm/bớt "cafe"/"coffee"/"bar"/"restaurant", viết hoa/thường khác nhau
- Kết hợp tên + địa chỉ + quận để xác định đúng địa điểm
- Đây là địa điểm thật đang hoạt động ở Sài Gòn, hãy cố gắng tìm

Trả về JSON:
{
  "found": true,
  "google_rating": 4.5,
  "google_review_count": 1234,
  "google_review_summary": "Tóm tắt 2-3 câu từ review thật trên Google Maps bằng tiếng Việt. NẾU KHÔNG CÓ review thật thì set null. TUYỆT ĐỐI KHÔNG tự bịa nội dung.",
  "google_highlights": ["keyword nổi bật 1", "keyword 2", "keyword 3"],
  "price_range": "$" hoặc "$$" hoặc "$$$" hoặc "$$$$" hoặc null,
  "phone_number": "số điện thoại hoặc null",
  "opening_hours": {"monday": "08:00-22:00", "tuesday": "08:00-22:00", ...} hoặc null,
  "description": "Mô tả hấp dẫn 2-3 câu tiếng Việt về địa điểm",
  "latitude": 10.xxxx,
  "longitude": 106.xxxx
}

QUAN TRỌNG:
- google_rating, google_review_count PHẢI lấy từ Google Maps thật, KHÔNG bịa
- latitude và longitude PHẢI chính xác theo Google Maps
- CHỈ set "found": false nếu THẬT SỰ không tìm thấy địa điểm nào phù hợp
- CHỈ trả JSON, không markdown`, name, address, district)
}
