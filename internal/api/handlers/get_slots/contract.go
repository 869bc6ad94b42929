package get_slots

type Logger interface {
	Info(format string, v ...interface{})
}
