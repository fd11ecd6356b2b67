package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/gonotif/internal/pkg/goroutine.(*Pool).run.func1()
	/app/internal/pkg/goroutine/pool.go:131 +0x45
panic({0x10203a0?, 0x13c2f50?})
	/usr/local/go/src/runtime/panic.go:785 +0x132
github.com/shandysiswandi/gonotif/internal/notification/usecase.(*Usecase).deliver(...)
	/app/internal/notification/usecase/delivery.go:58
`)

	assert.Equal(t, []string{
		"internal/pkg/goroutine/pool.go:131",
		"internal/notification/usecase/delivery.go:58",
	}, InternalPaths(stack))
}

func TestInternalPaths_None(t *testing.T) {
	assert.Empty(t, InternalPaths([]byte("goroutine 1 [running]:\nmain.main()\n\t/app/main.go:10 +0x1\n")))
}
