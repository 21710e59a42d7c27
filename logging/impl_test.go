package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

type failingAppender struct {
	err error
}

func (f failingAppender) Write(zapcore.Entry, []zapcore.Field) error { return nil }

func (f failingAppender) Sync() error { return f.err }

func TestObservedLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)

	logger.Debugw("built hierarchy", "nodes", 7, "leaves", 4)
	logger.Infow("query done", "id", 3)

	entries := logs.All()
	test.That(t, entries, test.ShouldHaveLength, 2)
	test.That(t, entries[0].Message, test.ShouldEqual, "built hierarchy")
	test.That(t, entries[0].ContextMap()["nodes"], test.ShouldEqual, int64(7))
	test.That(t, entries[1].Message, test.ShouldEqual, "query done")
	test.That(t, entries[1].Level, test.ShouldEqual, zapcore.InfoLevel)
}

func TestLevelGating(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)

	logger.Debugw("dropped")
	logger.Infow("dropped")
	logger.Warnw("kept")
	logger.Errorw("kept", "k", "v")
	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessage("dropped").Len(), test.ShouldEqual, 0)

	sub := logger.Sublogger("quiet")
	test.That(t, sub.GetLevel(), test.ShouldEqual, WARN)
}

func TestUnpairedKey(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("msg", "lonely")
	test.That(t, logs.Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[0].ContextMap()["lonely"], test.ShouldEqual, "unpaired log key")
}

func TestSublogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("proximity")
	logger.AddAppender(NewWriterAppender(&buf))

	sub := logger.Sublogger("bvh")
	sub.Infow("hello")

	line := buf.String()
	parts := strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, parts[1], test.ShouldEqual, "INFO")
	test.That(t, parts[2], test.ShouldEqual, "proximity.bvh")
	test.That(t, parts[3], test.ShouldContainSubstring, "impl_test.go")
	test.That(t, parts[4], test.ShouldEqual, "hello")
}

func TestWriterAppenderFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("")
	logger.AddAppender(NewWriterAppender(&buf))
	logger.Debugw("stats", "bv_tests", 12)
	test.That(t, buf.String(), test.ShouldContainSubstring, `{"bv_tests":12}`)
}

func TestSyncCombinesErrors(t *testing.T) {
	logger := NewBlankLogger("sync")
	test.That(t, logger.Sync(), test.ShouldBeNil)

	logger.AddAppender(failingAppender{errors.New("first")})
	logger.AddAppender(failingAppender{errors.New("second")})
	err := logger.Sync()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "first")
	test.That(t, err.Error(), test.ShouldContainSubstring, "second")
}

func TestNewLoggerLevel(t *testing.T) {
	test.That(t, NewLogger("proximity").GetLevel(), test.ShouldEqual, INFO)
	test.That(t, NewBlankLogger("proximity").GetLevel(), test.ShouldEqual, DEBUG)
}
