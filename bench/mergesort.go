package bench

import (
	"golang.org/x/sync/errgroup"
)

// mergeSort 비교용 머지소트. 새 슬라이스를 돌려준다.
func mergeSort(arr []int) []int {
	if len(arr) <= 1 {
		return arr
	}

	// 작은 배열은 삽입정렬 사용
	if len(arr) <= 16 {
		result := make([]int, len(arr))
		copy(result, arr)
		insertionSort(result)
		return result
	}

	mid := len(arr) / 2
	return merge(mergeSort(arr[:mid]), mergeSort(arr[mid:]))
}

// parallelMergeSort 비교용 병렬 머지소트.
// 퀵소트와 같은 규칙(임계값 이하 또는 깊이 상한이면 순차)으로 포크를 제한한다.
func parallelMergeSort(arr []int, threshold, maxDepth int) []int {
	return parallelMergeSortHelper(arr, threshold, maxDepth, 0)
}

func parallelMergeSortHelper(arr []int, threshold, maxDepth, depth int) []int {
	if len(arr) <= max(threshold, 1) || depth >= maxDepth {
		return mergeSort(arr)
	}

	mid := len(arr) / 2
	var left []int

	var g errgroup.Group
	g.Go(func() error {
		left = parallelMergeSortHelper(arr[:mid], threshold, maxDepth, depth+1)
		return nil
	})
	right := parallelMergeSortHelper(arr[mid:], threshold, maxDepth, depth+1)
	_ = g.Wait()

	return merge(left, right)
}

// merge 두 정렬된 슬라이스 병합
func merge(left, right []int) []int {
	result := make([]int, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}

	// 남은 요소들 한 번에 추가
	result = append(result, left[i:]...)
	return append(result, right[j:]...)
}

func insertionSort(arr []int) {
	for i := 1; i < len(arr); i++ {
		key := arr[i]
		j := i - 1
		for j >= 0 && arr[j] > key {
			arr[j+1] = arr[j]
			j--
		}
		arr[j+1] = key
	}
}
