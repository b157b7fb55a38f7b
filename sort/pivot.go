package sort

// medianOfThree 중앙값 피벗 선택.
// data[0], data[mid], data[hi] 세 원소를 비교-교환해 중앙값을 data[hi] 로 보낸다.
// 끝나면 data[0] 이 최솟값, data[mid] 가 최댓값이 된다.
// 원소가 3개 미만이면 아무것도 하지 않는다.
func medianOfThree[T any](data []T, compare CompareFunc[T]) error {
	hi := len(data) - 1
	if hi < 2 {
		return nil
	}
	mid := hi / 2

	swapIfLess := func(i, j int) error {
		lt, err := compare.less(data[i], data[j])
		if err != nil {
			return err
		}
		if lt {
			data[i], data[j] = data[j], data[i]
		}
		return nil
	}

	if err := swapIfLess(mid, 0); err != nil {
		return err
	}
	if err := swapIfLess(hi, 0); err != nil {
		return err
	}
	return swapIfLess(mid, hi)
}
