package capture

import (
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

var pkgPrefix = reflect.TypeOf((*Engine)(nil)).Elem().PkgPath() + "."

//	callerSource finds the first frame outside of this package's plumbing and returns it as file:line
func callerSource() (source string) {

	defer func() {
		if recover() != nil {
			source = ""
		}
	}()

	pcs := make([]uintptr, 32)
	count := runtime.Callers(2, pcs)
	if count == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:count])
	for {

		frame, more := frames.Next()

		if frame.Function != "" && !isOwnFrame(frame) {
			return formatFrame(frame)
		}

		if !more {
			return ""
		}
	}
}

func isOwnFrame(frame runtime.Frame) bool {
	return strings.HasPrefix(frame.Function, pkgPrefix) && !strings.HasSuffix(frame.File, "_test.go")
}

func formatFrame(frame runtime.Frame) string {

	if frame.File == "" || frame.Line <= 0 {
		return ""
	}

	file := filepath.ToSlash(frame.File)
	if idx := strings.LastIndex(file, "/"); idx > 0 {
		if parent := strings.LastIndex(file[:idx], "/"); parent >= 0 {
			file = file[parent+1:]
		}
	}

	return file + ":" + strconv.Itoa(frame.Line)
}

func sourceFromPC(pc uintptr) string {

	if pc == 0 {
		return ""
	}

	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return formatFrame(frame)
}
