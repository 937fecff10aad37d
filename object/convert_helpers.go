package object

import (
	"fmt"
	"strconv"
)

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

func indexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
