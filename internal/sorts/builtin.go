package sorts

import (
	"slices"

	"sortbench/internal/spec"
)

// Broken lists the built-ins that intentionally violate the sort contract.
var Broken = map[string]bool{
	"reverse":  true,
	"identity": true,
}

// Builtins returns the built-in candidates keyed by name.
func Builtins() map[string]spec.Sorter {
	return map[string]spec.Sorter{
		"std":       spec.SortFunc(slices.Sort[[]int]),
		"insertion": spec.SortFunc(Insertion),
		"shell":     spec.SortFunc(Shell),
		"quick":     spec.SortFunc(Quick),
		"merge":     spec.SortFunc(Merge),
		"heap":      spec.SortFunc(Heap),
		"reverse":   spec.SortFunc(slices.Reverse[[]int]),
		"identity":  spec.SortFunc(func([]int) {}),
	}
}

// Insertion sorts v by straight insertion.
func Insertion(v []int) {
	for i := 1; i < len(v); i++ {
		x := v[i]
		j := i
		for ; j > 0 && v[j-1] > x; j-- {
			v[j] = v[j-1]
		}
		v[j] = x
	}
}

// Shell sorts v with Ciura's gap sequence extended by 2.25x.
func Shell(v []int) {
	gaps := []int{701, 301, 132, 57, 23, 10, 4, 1}
	for g := gaps[0]; g*9/4 < len(v); g = g * 9 / 4 {
		gaps = append([]int{g * 9 / 4}, gaps...)
	}
	for _, gap := range gaps {
		for i := gap; i < len(v); i++ {
			x := v[i]
			j := i
			for ; j >= gap && v[j-gap] > x; j -= gap {
				v[j] = v[j-gap]
			}
			v[j] = x
		}
	}
}

const insertionCutoff = 16

// Quick sorts v with median-of-three quicksort, recursing into the smaller
// partition so stack depth stays logarithmic.
func Quick(v []int) {
	for len(v) > insertionCutoff {
		p := partition(v)
		if p < len(v)-p {
			Quick(v[:p])
			v = v[p+1:]
		} else {
			Quick(v[p+1:])
			v = v[:p]
		}
	}
	Insertion(v)
}

// partition places a median-of-three pivot at its final index and returns it.
func partition(v []int) int {
	hi := len(v) - 1
	mid := hi / 2
	if v[mid] < v[0] {
		v[mid], v[0] = v[0], v[mid]
	}
	if v[hi] < v[0] {
		v[hi], v[0] = v[0], v[hi]
	}
	if v[hi] < v[mid] {
		v[hi], v[mid] = v[mid], v[hi]
	}
	v[mid], v[hi-1] = v[hi-1], v[mid]
	pivot := v[hi-1]

	i, j := 0, hi-1
	for {
		for i++; v[i] < pivot; i++ {
		}
		for j--; v[j] > pivot; j-- {
		}
		if i >= j {
			break
		}
		v[i], v[j] = v[j], v[i]
	}
	v[i], v[hi-1] = v[hi-1], v[i]
	return i
}

// Merge sorts v with a top-down merge sort using one scratch buffer.
func Merge(v []int) {
	if len(v) < 2 {
		return
	}
	buf := make([]int, len(v))
	mergeSort(v, buf)
}

func mergeSort(v, buf []int) {
	if len(v) <= insertionCutoff {
		Insertion(v)
		return
	}
	mid := len(v) / 2
	mergeSort(v[:mid], buf[:mid])
	mergeSort(v[mid:], buf[mid:])
	if v[mid-1] <= v[mid] {
		return
	}
	copy(buf, v)
	i, j, k := 0, mid, 0
	for i < mid && j < len(v) {
		if buf[j] < buf[i] {
			v[k] = buf[j]
			j++
		} else {
			v[k] = buf[i]
			i++
		}
		k++
	}
	k += copy(v[k:], buf[i:mid])
	copy(v[k:], buf[j:len(v)])
}

// Heap sorts v with an in-place binary max-heap.
func Heap(v []int) {
	n := len(v)
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(v, i, n)
	}
	for end := n - 1; end > 0; end-- {
		v[0], v[end] = v[end], v[0]
		siftDown(v, 0, end)
	}
}

func siftDown(v []int, root, n int) {
	for {
		child := 2*root + 1
		if child >= n {
			return
		}
		if child+1 < n && v[child] < v[child+1] {
			child++
		}
		if v[root] >= v[child] {
			return
		}
		v[root], v[child] = v[child], v[root]
		root = child
	}
}
