package base

import "fmt"

func Panicf(msg string, args ...interface{}) {
	Panic(fmt.Errorf(msg, args...))
}

func Panic(err error) {
	FlushLog()
	panic(fmt.Errorf("%v[PANIC]%v %v", ANSI_FG1_RED, ANSI_RESET, err))
}

func UnexpectedValue(x interface{}) {
	Panicf("unexpected value: <%T> %#v", x, x)
}
