package sort

import "cmp"

// IsSorted data 가 compare 기준 비내림차순인지 검사한다.
func IsSorted[T any](data []T, compare CompareFunc[T]) (bool, error) {
	for i := 1; i < len(data); i++ {
		lt, err := compare.less(data[i], data[i-1])
		if err != nil {
			return false, err
		}
		if lt {
			return false, nil
		}
	}
	return true, nil
}

// IsSortedOrdered cmp.Ordered 타입용 IsSorted
func IsSortedOrdered[T cmp.Ordered](data []T) bool {
	for i := 1; i < len(data); i++ {
		if cmp.Less(data[i], data[i-1]) {
			return false
		}
	}
	return true
}
