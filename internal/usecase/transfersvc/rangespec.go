package transfersvc

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/yourname/lanshare/internal/models"
)

var reRangeHeader = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// RangeSpec — валидированное байтовое окно [Start, End] внутри файла.
type RangeSpec struct {
	Start int64
	End   int64
}

// Length возвращает число байт в окне.
func (r RangeSpec) Length() int64 {
	return r.End - r.Start + 1
}

// ParseRange разбирает заголовок Range относительно размера файла.
// Возвращает окно и признак частичного ответа. Политика:
//   - пустой заголовок — полный файл, partial=false;
//   - нечитаемый заголовок — полный файл, partial=false (запрос в остальном
//     корректен, отдаём всё целиком);
//   - корректный, но не попадающий в границы — ErrRangeNotSatisfiable.
func ParseRange(header string, size int64) (RangeSpec, bool, error) {
	full := RangeSpec{Start: 0, End: size - 1}
	if header == "" {
		return full, false, nil
	}

	m := reRangeHeader.FindStringSubmatch(header)
	if m == nil {
		return full, false, nil
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return full, false, nil
	}
	end := size - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return full, false, nil
		}
	}

	if start >= size || end >= size || start > end {
		return RangeSpec{}, false, fmt.Errorf("bytes=%d-%d of %d: %w", start, end, size, models.ErrRangeNotSatisfiable)
	}

	return RangeSpec{Start: start, End: end}, true, nil
}
