package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nvigo/nvigo"
	"github.com/nvigo/nvigo/api"
	"github.com/nvigo/nvigo/ffi/ffitest"
	"github.com/nvigo/nvigo/object"
)

func main() {
	var (
		evalExpr    = flag.String("eval", "", "Expression to evaluate")
		command     = flag.String("cmd", "", "Ex command to run")
		execSrc     = flag.String("exec", "", "Block of Ex commands to execute, capturing output")
		funcName    = flag.String("func", "", "Function to call")
		funcArgs    = flag.String("args", "", "Function arguments (comma-separated)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if os.Getenv("NVIGO_DEBUG") != "" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		nvigo.SetLogger(logger)
	}

	ed := seedEditor()
	defer ed.Close()

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *evalExpr == "" && *command == "" && *execSrc == "" && *funcName == "" {
		fmt.Fprintln(os.Stderr, "Usage: nvigo-repl -eval <expr> | -cmd <command> | -exec <src> | -func <name> [-args a,b]")
		fmt.Fprintln(os.Stderr, "       nvigo-repl -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*evalExpr, *command, *execSrc, *funcName, *funcArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(evalExpr, command, execSrc, funcName, funcArgs string) error {
	if command != "" {
		if err := api.Command(command); err != nil {
			return fmt.Errorf("command: %w", err)
		}
		fmt.Println("OK")
	}

	if evalExpr != "" {
		result, err := api.Eval[any](evalExpr)
		if err != nil {
			return fmt.Errorf("eval: %w", err)
		}
		fmt.Printf("%v\n", result)
	}

	if execSrc != "" {
		out, err := api.Exec(execSrc, true)
		if err != nil {
			return fmt.Errorf("exec: %w", err)
		}
		fmt.Println(out)
	}

	if funcName != "" {
		var args []any
		if funcArgs != "" {
			for _, raw := range strings.Split(funcArgs, ",") {
				args = append(args, parseArg(raw))
			}
		}
		result, err := api.CallFunction[any](funcName, args...)
		if err != nil {
			return fmt.Errorf("call %s: %w", funcName, err)
		}
		fmt.Printf("%v\n", result)
	}

	return nil
}

// parseArg guesses the vimscript type of a literal argument.
func parseArg(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// seedEditor installs the stub editor with enough canned state to poke at.
func seedEditor() *ffitest.Editor {
	ed := ffitest.Install()

	ed.RespondEval("1 + 1", object.FromInteger(2))
	ed.RespondEval("v:version", object.FromInteger(801))
	ed.RespondEval("g:loaded_plugins", object.FromArray(object.NewArray(
		object.FromGoString("fugitive"),
		object.FromGoString("telescope"),
	)))
	ed.RespondExec("messages", "last message")

	ed.RespondFunction("strlen", func(args []object.Object) (object.Object, error) {
		if len(args) != 1 {
			return object.Nil(), fmt.Errorf("strlen expects 1 argument, got %d", len(args))
		}
		s, err := object.ToGoString(args[0])
		if err != nil {
			return object.Nil(), err
		}
		return object.FromInteger(int64(len(s))), nil
	})
	ed.RespondFunction("reverse", func(args []object.Object) (object.Object, error) {
		if len(args) != 1 {
			return object.Nil(), fmt.Errorf("reverse expects 1 argument, got %d", len(args))
		}
		s, err := object.ToGoString(args[0])
		if err != nil {
			return object.Nil(), err
		}
		b := []byte(s)
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
		return object.FromGoString(string(b)), nil
	})

	return ed
}
