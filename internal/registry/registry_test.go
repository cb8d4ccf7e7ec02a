package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/routewise/pmconfig/internal/domain"
)

func TestRegistry_SwapReturnsPrevious(t *testing.T) {
	first := &domain.Config{Analytics: domain.AnalyticsSettings{Source: "first"}}
	second := &domain.Config{Analytics: domain.AnalyticsSettings{Source: "second"}}

	reg := New(first)
	assert.Same(t, first, reg.Current())

	prev := reg.Swap(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, reg.Current())
}

func TestRegistry_NilUntilFirstLoad(t *testing.T) {
	reg := New(nil)
	assert.Nil(t, reg.Current())
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	a := &domain.Config{Analytics: domain.AnalyticsSettings{Source: "a"}}
	b := &domain.Config{Analytics: domain.AnalyticsSettings{Source: "b"}}
	reg := New(a)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				cfg := reg.Current()
				// A reader must always see a complete model, never nil.
				if !assert.NotNil(t, cfg) {
					return
				}
				src := cfg.Analytics.Source
				assert.True(t, src == "a" || src == "b")
			}
		}()
	}
	for j := 0; j < 100; j++ {
		if j%2 == 0 {
			reg.Swap(b)
		} else {
			reg.Swap(a)
		}
	}
	wg.Wait()
}
