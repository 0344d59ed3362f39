package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_BashWrapperSingleCommand(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "cat README.md"})
	assert.Equal(t, []ParsedCommand{{Kind: KindRead, Cmd: []string{"cat", "README.md"}, Name: "README.md"}}, cmds)
}

func TestClassify_PipelineDropsSmallFormattingHelper(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "cat file.txt | wc -l"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindRead, cmds[0].Kind)
}

func TestClassify_HeadWithoutFileOperandIsDropped(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "cat file.txt | head -20"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindRead, cmds[0].Kind)
}

func TestClassify_HeadWithFileOperandSurvives(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "head -20 file.txt"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindRead, cmds[0].Kind)
	assert.Equal(t, "file.txt", cmds[0].Name)
}

func TestClassify_GrepQueryAndShortenedPath(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "grep -r TODO src/internal/session"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindSearch, cmds[0].Kind)
	assert.Equal(t, "TODO", cmds[0].Query)
	assert.Equal(t, "session", cmds[0].Path)
}

func TestClassify_EslintConfigFlagDoesNotBecomeTarget(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "eslint --config .eslintrc.json src/index.js"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindLint, cmds[0].Kind)
	assert.Equal(t, "eslint", cmds[0].Tool)
	assert.Equal(t, []string{"src/index.js"}, cmds[0].Targets)
}

func TestClassify_CargoFmtIsFormat(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "cargo fmt"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindFormat, cmds[0].Kind)
}

func TestClassify_DropsEchoPrefix(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "echo running tests && cargo test"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindTest, cmds[0].Kind)
}

func TestClassify_DropsCdBeforeTest(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "cd internal && go test ./..."})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindTest, cmds[0].Kind)
}

func TestClassify_DropsTrueNoop(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "go vet ./... || true"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindLint, cmds[0].Kind)
}

func TestClassify_CollapsesAdjacentDuplicates(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "cat a.txt && cat a.txt"})
	assert.Len(t, cmds, 1)
}

func TestClassify_UnknownCommandPreservesCmd(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "some-random-tool --flag"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindUnknown, cmds[0].Kind)
	assert.Equal(t, []string{"some-random-tool", "--flag"}, cmds[0].Cmd)
}

func TestClassify_NpmRunLintDelegates(t *testing.T) {
	cmds := Classify([]string{"bash", "-lc", "npm run lint"})
	assert.Len(t, cmds, 1)
	assert.Equal(t, KindLint, cmds[0].Kind)
	assert.Equal(t, "npm", cmds[0].Tool)
}
