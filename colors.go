package consolelog

const colorReset = "\x1b[0m"

var levelColors = map[Level]string{
	LevelError: "\x1b[31m",
	LevelWarn:  "\x1b[33m",
	LevelDebug: "\x1b[35m",
	LevelInfo:  "\x1b[36m",
	LevelLog:   "\x1b[37m",
}

func colorize(lvl Level, line string) string {

	color, has := levelColors[lvl]
	if !has {
		color = levelColors[LevelLog]
	}

	return color + line + colorReset
}
