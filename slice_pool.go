package gamekit

import (
	"sync"
)

var (
	nodeSlicePool = sync.Pool{
		New: func() interface{} {
			return make([]*Node, 0, 64)
		},
	}

	cfrNodeSlicePool = sync.Pool{
		New: func() interface{} {
			return make([]CFRNode, 0)
		},
	}

	floatSlicePool = sync.Pool{
		New: func() interface{} {
			return make([]float64, 0)
		},
	}
)

func allocNodeSlice() []*Node {
	return nodeSlicePool.Get().([]*Node)
}

func freeNodeSlice(s []*Node) {
	if cap(s) > 0 {
		s = s[:cap(s)]
		for i := range s {
			s[i] = nil
		}
		nodeSlicePool.Put(s[:0])
	}
}

func allocCFRNodeSlice() []CFRNode {
	return cfrNodeSlicePool.Get().([]CFRNode)
}

func freeCFRNodeSlice(s []CFRNode) {
	if cap(s) > 0 {
		cfrNodeSlicePool.Put(s[:0])
	}
}

func allocFloatSlice() []float64 {
	return floatSlicePool.Get().([]float64)
}

func freeFloatSlice(s []float64) {
	if cap(s) > 0 {
		floatSlicePool.Put(s[:0])
	}
}
