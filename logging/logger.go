package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/crytic/solflat/logging/colors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// GlobalLogger describes a Logger that is disabled by default and is configured by the CLI once the project
// configuration is known. Each module/package should create its own sub-logger. This allows to create unique logging
// instances depending on the use case.
var GlobalLogger *Logger

// Logger describes a custom logging object that can log events to any arbitrary channel in structured, unstructured,
// or colorized unstructured formats.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// structuredLogger describes a logger that will be used to output structured (JSON) logs to any arbitrary channel.
	structuredLogger zerolog.Logger

	// structuredWriters describes the various channels that the structuredLogger writes to.
	structuredWriters []io.Writer

	// unstructuredLogger describes a logger that will be used to output unstructured logs with no coloring.
	unstructuredLogger zerolog.Logger

	// unstructuredWriters describes the various channels that the unstructuredLogger writes to.
	unstructuredWriters []io.Writer

	// unstructuredColorLogger describes a logger that will be used to output colorized unstructured logs (e.g. the
	// console).
	unstructuredColorLogger zerolog.Logger

	// unstructuredColorWriters describes the various channels that the unstructuredColorLogger writes to.
	unstructuredColorWriters []io.Writer

	// context describes the key-value pairs attached to every event emitted by this logger.
	context map[string]string
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. By default, a logger that is instantiated
// with this function is not usable until a log channel is added. To add or remove channels that the logger
// streams logs to, call the Logger.AddWriter and Logger.RemoveWriter functions.
func NewLogger(level zerolog.Level) *Logger {
	return &Logger{
		level:                    level,
		structuredLogger:         zerolog.New(nil).Level(zerolog.Disabled),
		structuredWriters:        make([]io.Writer, 0),
		unstructuredLogger:       zerolog.New(nil).Level(zerolog.Disabled),
		unstructuredWriters:      make([]io.Writer, 0),
		unstructuredColorLogger:  zerolog.New(nil).Level(zerolog.Disabled),
		unstructuredColorWriters: make([]io.Writer, 0),
		context:                  make(map[string]string),
	}
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have their own unique logger so that parsing of logs is "grep-able" based on some key
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	subContext := make(map[string]string, len(l.context)+1)
	for k, v := range l.context {
		subContext[k] = v
	}
	subContext[key] = value

	subLogger := &Logger{
		level:                    l.level,
		structuredWriters:        slices.Clone(l.structuredWriters),
		unstructuredWriters:      slices.Clone(l.unstructuredWriters),
		unstructuredColorWriters: slices.Clone(l.unstructuredColorWriters),
		context:                  subContext,
	}
	subLogger.rebuild()
	return subLogger
}

// AddWriter will add a writer to which log output will go to. If the format is structured, the writer receives JSON
// events. If the format is unstructured, colored determines whether ANSI coloring is retained. Duplicate writers are
// ignored.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writerList(format, colored)

	// Check to see if the writer is already in the array of writers
	for _, w := range *writers {
		if writer == w {
			return
		}
	}

	*writers = append(*writers, writer)
	l.rebuild()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist,
// this function is a no-op
func (l *Logger) RemoveWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writerList(format, colored)

	for i, w := range *writers {
		if writer == w {
			*writers = append((*writers)[:i], (*writers)[i+1:]...)
			l.rebuild()
			return
		}
	}
}

// writerList returns a pointer to the writer list that manages the given format/coloring combination.
func (l *Logger) writerList(format LogFormat, colored bool) *[]io.Writer {
	if format == STRUCTURED {
		return &l.structuredWriters
	}
	if colored {
		return &l.unstructuredColorWriters
	}
	return &l.unstructuredWriters
}

// rebuild recreates the underlying zerolog loggers from the current writer lists, level and context.
func (l *Logger) rebuild() {
	l.structuredLogger = zerolog.New(nil).Level(zerolog.Disabled)
	if len(l.structuredWriters) > 0 {
		l.structuredLogger = withContext(zerolog.New(zerolog.MultiLevelWriter(l.structuredWriters...)).
			Level(l.level).With().Timestamp(), l.context).Logger()
	}

	l.unstructuredLogger = zerolog.New(nil).Level(zerolog.Disabled)
	if len(l.unstructuredWriters) > 0 {
		consoleWriters := make([]io.Writer, 0, len(l.unstructuredWriters))
		for _, w := range l.unstructuredWriters {
			consoleWriters = append(consoleWriters, setupDefaultFormatting(zerolog.ConsoleWriter{Out: w, NoColor: true}, l.level))
		}
		l.unstructuredLogger = withContext(zerolog.New(zerolog.MultiLevelWriter(consoleWriters...)).
			Level(l.level).With(), l.context).Logger()
	}

	l.unstructuredColorLogger = zerolog.New(nil).Level(zerolog.Disabled)
	if len(l.unstructuredColorWriters) > 0 {
		consoleWriters := make([]io.Writer, 0, len(l.unstructuredColorWriters))
		for _, w := range l.unstructuredColorWriters {
			consoleWriters = append(consoleWriters, setupDefaultFormatting(zerolog.ConsoleWriter{Out: w}, l.level))
		}
		l.unstructuredColorLogger = withContext(zerolog.New(zerolog.MultiLevelWriter(consoleWriters...)).
			Level(l.level).With(), l.context).Logger()
	}
}

// withContext attaches every key-value pair of the context to the provided zerolog context.
func withContext(ctx zerolog.Context, context map[string]string) zerolog.Context {
	for k, v := range context {
		ctx = ctx.Str(k, v)
	}
	return ctx
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.log(zerolog.TraceLevel, false, args...)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.log(zerolog.DebugLevel, false, args...)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.log(zerolog.InfoLevel, false, args...)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.log(zerolog.WarnLevel, false, args...)
}

// Error is a wrapper function that will log an error event.
func (l *Logger) Error(args ...any) {
	l.log(zerolog.ErrorLevel, false, args...)
}

// Panic is a wrapper function that will log a panic event
func (l *Logger) Panic(args ...any) {
	l.log(zerolog.PanicLevel, true, args...)
}

// log builds the messages for the provided arguments and emits an event of the given level to every channel.
func (l *Logger) log(level zerolog.Level, forceStack bool, args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	colorMsg, noColorMsg, err, info := buildMsgs(args...)

	// Instantiate log events
	structuredLog := l.structuredLogger.WithLevel(level)
	unstructuredLog := l.unstructuredLogger.WithLevel(level)
	colorLog := l.unstructuredColorLogger.WithLevel(level)

	// Chain the error
	chainError(err, forceStack || l.level <= zerolog.DebugLevel, structuredLog, unstructuredLog, colorLog)

	// If we are provided a structured log info object, add that as a key-value pair to the events
	if info != nil {
		structuredLog.Any("info", info)
		unstructuredLog.Any("info", info)
		colorLog.Any("info", info)
	}

	// Append the messages to each event. This will also result in the log events being sent out to their respective
	// streams. The structured message goes last so that panics reach every channel.
	unstructuredLog.Msg(noColorMsg)
	colorLog.Msg(colorMsg)
	structuredLog.Msg(noColorMsg)

	if level == zerolog.PanicLevel {
		panic(noColorMsg)
	}
}

// buildMsgs describes a function that takes in a variadic list of arguments of any type and returns two strings and,
// optionally, an error and a StructuredLogInfo object. The first string will be a colorized-string that can be used for
// console logging while the second string will be a non-colorized one that can be used for file/structured logging.
// The error and the StructuredLogInfo can be used to add additional context to log messages
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	// Guard clause
	if len(args) == 0 {
		return "", "", nil, nil
	}

	// Initialize the base color context, the string buffers and the structured log info object
	colorCtx := colors.Reset
	colorOutput := make([]string, 0)
	noColorOutput := make([]string, 0)
	var info StructuredLogInfo
	var err error

	// Iterate through each argument in the list and switch on type
	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// If the argument is a color function, switch the current color context
			colorCtx = t
		case StructuredLogInfo:
			// Note that only one structured log info can be provided for each log message
			info = t
		case error:
			// Note that only one error can be provided for each log message
			err = t
		case *LogBuffer:
			// Flatten the buffer's arguments into this message, keeping their own color contexts
			bufColor, bufNoColor, _, _ := buildMsgs(t.Elements()...)
			colorOutput = append(colorOutput, bufColor)
			noColorOutput = append(noColorOutput, bufNoColor)
		default:
			// In the base case, append the object to the two string buffers. The colored string buffer will have the
			// current color context applied to it.
			colorOutput = append(colorOutput, colorCtx(t))
			noColorOutput = append(noColorOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(colorOutput, ""), strings.Join(noColorOutput, ""), err, info
}

// chainError is a helper function that takes in a list of *zerolog.Event objects and chains an error to each of them.
// If debug is true, then a stack trace is added to each event as well.
func chainError(err error, debug bool, events ...*zerolog.Event) {
	for _, event := range events {
		// Note that even if err is nil, there will not be a panic here
		event.Err(err)
		// If we are in debug mode or below, then we will add the stack traces as well for debugging
		if debug {
			event.Stack()
		}
	}
}

// setupDefaultFormatting will update the console logger's formatting to the solflat standard
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output
	writer.FormatTimestamp = func(i interface{}) string {
		return ""
	}

	// We will define a custom format for each level
	writer.FormatLevel = func(i any) string {
		levelStr, _ := i.(string)

		// Create a level object for better switch logic
		level, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			return levelStr
		}

		// Only colorize if the writer allows it
		colorize := func(colorFunc colors.ColorFunc, s string) string {
			if writer.NoColor {
				return s
			}
			return colorFunc(s)
		}

		// Switch on the level and return a custom, colored string
		switch level {
		case zerolog.TraceLevel:
			return colorize(colors.CyanBold, zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colorize(colors.BlueBold, zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colorize(colors.GreenBold, colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colorize(colors.YellowBold, zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colorize(colors.RedBold, zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colorize(colors.RedBold, zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colorize(colors.RedBold, zerolog.LevelPanicValue)
		default:
			return levelStr
		}
	}

	// Messages are colorized by buildMsgs already, so they are emitted as-is
	writer.FormatMessage = func(i any) string {
		if i == nil {
			return ""
		}
		return fmt.Sprintf("%v", i)
	}

	// Field names and error values go through the colors package so that disabling colors covers them too
	colorizeField := func(s string, c colors.Color) string {
		if writer.NoColor {
			return s
		}
		return colors.Colorize(s, c)
	}
	writer.FormatFieldName = func(i any) string {
		return colorizeField(fmt.Sprintf("%v=", i), colors.CYAN)
	}
	writer.FormatErrFieldName = func(i any) string {
		return colorizeField(fmt.Sprintf("%v=", i), colors.CYAN)
	}
	writer.FormatErrFieldValue = func(i any) string {
		return colorizeField(fmt.Sprintf("%v", i), colors.RED)
	}

	// If we are above debug level, we want to get rid of the `module` and `runId` components when logging to console
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module", "runId"}
	}

	return writer
}
