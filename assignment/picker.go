package assignment

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mohitkumar/screenflow/model"
)

type Picker interface {
	Pick(variants []model.Variant) (*model.Variant, bool)
}

// WeightedPicker draws r uniformly in [0, total) and walks the variants
// subtracting weights until r drops below zero. Rounding leftovers fall back
// to the first variant.
type WeightedPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewWeightedPicker() *WeightedPicker {
	return NewSeededPicker(time.Now().UnixNano())
}

func NewSeededPicker(seed int64) *WeightedPicker {
	return &WeightedPicker{rnd: rand.New(rand.NewSource(seed))}
}

func (p *WeightedPicker) float() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Float64()
}

func (p *WeightedPicker) Pick(variants []model.Variant) (*model.Variant, bool) {
	if len(variants) == 0 {
		return nil, false
	}
	total := 0.0
	for _, v := range variants {
		if v.Weight > 0 {
			total += v.Weight
		}
	}
	if total <= 0 {
		return &variants[0], true
	}
	r := p.float() * total
	for i := range variants {
		if variants[i].Weight <= 0 {
			continue
		}
		r -= variants[i].Weight
		if r < 0 {
			return &variants[i], true
		}
	}
	return &variants[0], true
}
