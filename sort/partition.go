package sort

// partition 기본 파티션 (Lomuto).
// 피벗은 이미 data[len-1] 에 있어야 한다. 피벗 이하 원소를 앞쪽으로 모은 뒤
// 피벗을 최종 위치로 옮기고 그 인덱스를 돌려준다.
// 비교 횟수는 정확히 len-1 번이며 안정 정렬이 아니다.
func partition[T any](data []T, compare CompareFunc[T]) (int, error) {
	hi := len(data) - 1
	pivot := data[hi]
	i := 0

	for j := 0; j < hi; j++ {
		c, err := compare.compare(data[j], pivot)
		if err != nil {
			return 0, err
		}
		if c <= 0 {
			data[i], data[j] = data[j], data[i]
			i++
		}
	}
	data[i], data[hi] = data[hi], data[i]
	return i, nil
}

// pivotAndPartition 피벗 선택 후 파티션. 원소가 2개 이상일 때만 호출한다.
func pivotAndPartition[T any](data []T, compare CompareFunc[T]) (int, error) {
	if err := medianOfThree(data, compare); err != nil {
		return 0, err
	}
	return partition(data, compare)
}
