// Package sort 는 깊이와 크기로 포크 수를 제한하는 병렬 퀵소트를 제공한다.
//
// 정렬은 슬라이스를 제자리에서 파티션한 뒤 왼쪽 구간을 새 고루틴에서, 오른쪽 구간을
// 현재 고루틴에서 정렬하고 join 한다. 다음 중 하나면 순차 퀵소트로 넘긴다.
//   - 구간 원소 수 <= Config.SequentialThreshold
//   - 포크 깊이 >= Config.MaxDepth
//
// 따라서 한 번의 호출이 만드는 추가 고루틴은 최대 2^MaxDepth-1 개다.
//
// 피벗은 중앙값(median-of-three)으로 고르고 Lomuto 파티션을 쓴다. 안정 정렬이 아니며
// 최악의 경우 O(n^2) 를 보장하지 않는다.
//
// 사용 예:
//
//	data := []int{5, 3, 8, 1, 9, 2}
//	if err := sort.ParallelSortOrdered(data, sort.DefaultConfig()); err != nil {
//	    return err
//	}
//
// 비교 함수는 실패할 수 있다(CompareFunc). 실패나 패닉은 ErrComparator 로 표시되어
// 모든 태스크가 끝난 뒤 호출자에게 돌아온다.
package sort
