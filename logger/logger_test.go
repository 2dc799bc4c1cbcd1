package logger_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/whload/logger"
)

var _ = Describe("Logger", func() {
	var (
		l         *logger.LoggerImpl
		logOutput *bytes.Buffer
	)

	decode := func() map[string]interface{} {
		var actual map[string]interface{}
		Expect(json.Unmarshal(logOutput.Bytes(), &actual)).To(Succeed())
		return actual
	}

	BeforeEach(func() {
		l = logger.NewLogger("test-service", "debug", true)
		l.SetJSONFormat()
		logOutput = bytes.NewBufferString("")
		l.SetOutput(logOutput)
	})

	It("Should have `test-service` as service name", func() {
		l.Info("Testing")
		Expect(decode()["service"]).To(Equal("test-service"))
	})

	It("Should have info as log level", func() {
		l.Info("Testing")
		Expect(decode()["level"]).To(Equal("info"))
	})

	It("Should have warn as log level", func() {
		l.Warn("Testing")
		Expect(decode()["level"]).To(Equal("warning"))
	})

	It("Should have error as log level with a stack trace", func() {
		l.Error("Testing")
		actual := decode()
		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["stackTrace"]).ToNot(BeNil())
	})

	It("Should have `Testing` as msg", func() {
		l.Info("Testing")
		Expect(decode()["msg"]).To(Equal("Testing"))
	})

	It("Should carry fields added with WithField", func() {
		l.WithField("table", "dim_date").WithField("runId", "abc").Info("Testing")
		actual := decode()
		Expect(actual["table"]).To(Equal("dim_date"))
		Expect(actual["runId"]).To(Equal("abc"))
		Expect(actual["service"]).To(Equal("test-service"))
	})

	It("Should not log debug entries at info level", func() {
		quiet := logger.NewLogger("test-service", "info", false)
		quiet.SetJSONFormat()
		quiet.SetOutput(logOutput)
		quiet.Debug("hidden")
		Expect(logOutput.Len()).To(Equal(0))
	})

	It("Should fall back to info for an unknown level", func() {
		odd := logger.NewLogger("test-service", "chatty", false)
		Expect(odd.LogLevelStr).To(Equal("info"))
	})
})
