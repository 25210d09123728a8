package classifier

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortOnce    sync.Once
	ortInitErr error
)

// initONNXRuntime initializes the shared ONNX Runtime environment once per
// process. The environment stays alive for the process lifetime; sessions
// own their tensors and are destroyed individually.
func initONNXRuntime() error {
	ortOnce.Do(func() {
		if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
			ort.SetSharedLibraryPath(p)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			ortInitErr = fmt.Errorf("initialize onnxruntime: %w", err)
		}
	})
	return ortInitErr
}
