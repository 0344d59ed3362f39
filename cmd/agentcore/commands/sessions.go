package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/agentcore/agentcore/internal/config"
	"github.com/agentcore/agentcore/internal/storage"
)

// lastExchange is the durable record `run --continue` reads back: just
// enough of the previous turn to remind the model what it was doing,
// without trying to replay the provider's full response history.
type lastExchange struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

func sessionStore() *storage.Storage {
	return storage.New(config.GetPaths().Data)
}

// sessionKey derives a storage path segment from a working directory so
// unrelated projects never collide in the shared session store.
func sessionKey(workDir string) []string {
	sum := sha256.Sum256([]byte(workDir))
	return []string{"sessions", hex.EncodeToString(sum[:])}
}

func loadLastExchange(ctx context.Context, workDir string) (lastExchange, bool) {
	var ex lastExchange
	if err := sessionStore().Get(ctx, sessionKey(workDir), &ex); err != nil {
		return lastExchange{}, false
	}
	return ex, true
}

func saveLastExchange(ctx context.Context, workDir string, ex lastExchange) error {
	return sessionStore().Put(ctx, sessionKey(workDir), ex)
}
