package sort

import "cmp"

// SequentialSort 단일 고루틴 퀵소트.
// 병렬 정렬의 폴백 경로이자 정확성 기준이다. 비교 함수가 실패하면 즉시 중단하고
// 그 에러를 돌려주며, 이때 data 는 원소 집합은 그대로인 채 부분 정렬된 상태로 남는다.
func SequentialSort[T any](data []T, compare CompareFunc[T]) error {
	return sortSeq(data, compare)
}

// SequentialSortOrdered cmp.Ordered 타입용 SequentialSort
func SequentialSortOrdered[T cmp.Ordered](data []T) error {
	return sortSeq(data, Ordered[T]())
}

// sortSeq 는 data 전체를 정렬한다.
// 작은 쪽만 재귀하고 큰 쪽은 루프로 처리해(꼬리 재귀 최적화) 중복값이 많은 입력에서도
// 스택 깊이가 O(log n) 으로 유지된다. 결과는 왼쪽→오른쪽 재귀와 같다.
func sortSeq[T any](data []T, compare CompareFunc[T]) error {
	for len(data) > 1 {
		i, err := pivotAndPartition(data, compare)
		if err != nil {
			return err
		}

		left, right := data[:i], data[i+1:]
		if len(left) < len(right) {
			if err := sortSeq(left, compare); err != nil {
				return err
			}
			data = right
		} else {
			if err := sortSeq(right, compare); err != nil {
				return err
			}
			data = left
		}
	}
	return nil
}
