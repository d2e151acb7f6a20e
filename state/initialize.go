package state

import (
	"os"
	"time"

	"go.uber.org/zap"

	"storybook/common"
)

// newLocalEnv creates a new LocalEnv instance with default values. Logger is
// a no-op until configuration is loaded, so early failures can be reported
// without nil checks.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:  time.Now(),
		Log:    zap.NewNop(),
		Out:    os.Stdout,
		Format: common.OutputFmtText,
	}
}
