package sort

import (
	"cmp"

	"github.com/cockroachdb/errors"
)

// 정렬 코어가 돌려주는 에러 종류
var (
	// ErrComparator 비교 함수가 에러를 돌려주거나 패닉을 일으킨 경우
	ErrComparator = errors.New("comparator failed")
	// ErrInvalidConfig 임계값/깊이 설정이 잘못된 경우
	ErrInvalidConfig = errors.New("invalid sort config")
	// ErrInvalidRange SortRange 경계가 슬라이스 밖인 경우
	ErrInvalidRange = errors.New("invalid range")
)

// CompareFunc 는 cmp.Compare 와 같은 부호 규약(a<b 음수, a==b 0, a>b 양수)을 따르되
// 실패할 수 있는 비교 함수.
type CompareFunc[T any] func(a, b T) (int, error)

// Ordered cmp.Ordered 타입용 비교 함수
func Ordered[T cmp.Ordered]() CompareFunc[T] {
	return func(a, b T) (int, error) {
		return cmp.Compare(a, b), nil
	}
}

// Infallible 실패하지 않는 일반 비교 함수를 CompareFunc 로 감싼다.
func Infallible[T any](f func(a, b T) int) CompareFunc[T] {
	return func(a, b T) (int, error) {
		return f(a, b), nil
	}
}

// comparatorError 는 ErrComparator 와 비교 함수의 원래 에러 양쪽으로 풀린다.
type comparatorError struct {
	cause error
}

func (e *comparatorError) Error() string {
	return "comparing elements: " + e.cause.Error()
}

func (e *comparatorError) Unwrap() []error {
	return []error{ErrComparator, e.cause}
}

// compare 는 비교 함수 호출 지점. 반환된 에러와 패닉 모두 comparatorError 가 된다.
func (c CompareFunc[T]) compare(a, b T) (r int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &comparatorError{cause: errors.Newf("comparator panicked: %v", p)}
		}
	}()
	r, err = c(a, b)
	if err != nil {
		return 0, &comparatorError{cause: err}
	}
	return r, nil
}

// less a < b
func (c CompareFunc[T]) less(a, b T) (bool, error) {
	r, err := c.compare(a, b)
	return r < 0, err
}
