package util

import "github.com/SeakMengs/AutoActa/internal/constant"

func CalculateTotalPage(totalItems int64, pageSize uint) int {
	if pageSize <= 0 {
		pageSize = constant.DefaultPageSize
	}
	if totalItems == 0 {
		return 1
	}
	totalPage := int(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) != 0 {
		totalPage++
	}
	return totalPage
}

// Paginate returns the bounds of page (1-based) over n items.
func Paginate(n int, page, pageSize uint) (start, end int) {
	if pageSize == 0 {
		pageSize = constant.DefaultPageSize
	}
	if page == 0 {
		page = 1
	}
	start = min(int((page-1)*pageSize), n)
	end = min(start+int(pageSize), n)
	return start, end
}
