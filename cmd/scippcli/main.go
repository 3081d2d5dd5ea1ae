// cmd/scippcli/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"scippgo/internal/binning"
	"scippgo/internal/dims"
	"scippgo/internal/storage"
	"scippgo/internal/unit"
	"scippgo/internal/variable"
)

const VERSION = "0.1.0"

// Build variables - can be set during build with ldflags.
var BuildDate = "unknown"

// Command aliases, short forms of each subcommand name below.
var commandAliases = map[string]string{
	"m": "make",
	"s": "slice",
	"a": "add",
	"r": "rebin",
	"d": "describe",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}
	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		showVersion()
		return
	}

	var err error
	switch cmd {
	case "make":
		err = makeCommand(args[1:])
	case "slice":
		err = sliceCommand(args[1:])
	case "add":
		err = addCommand(args[1:])
	case "rebin":
		err = rebinCommand(args[1:])
	case "describe":
		err = describeCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "scippcli: unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "scippcli: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("scippcli - labeled multi-dimensional array engine")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  scippcli make <label> <v0,v1,...>       Build a 1-D float64 variable and print it  (alias: m)")
	fmt.Println("  scippcli slice <label> <begin> <end> <v0,v1,...>  Slice a 1-D float64 variable     (alias: s)")
	fmt.Println("  scippcli add <label> <a0,a1,...> <b0,b1,...>  Add two 1-D float64 variables          (alias: a)")
	fmt.Println("  scippcli rebin <label> <old...> <new...> <data...>  Rebin a histogram                 (alias: r)")
	fmt.Println("  scippcli describe <label> <v0,v1,...>   Print summary statistics                    (alias: d)")
	fmt.Println()
	fmt.Println("  scippcli --version   Show version")
	fmt.Println("  scippcli --help      Show this message")
}

func showVersion() {
	fmt.Printf("scippcli %s (built %s)\n", VERSION, BuildDate)
}

func parseLabel(s string) (dims.Dim, error) {
	switch strings.ToLower(s) {
	case "x":
		return dims.X, nil
	case "y":
		return dims.Y, nil
	case "z":
		return dims.Z, nil
	case "row":
		return dims.Row, nil
	case "col":
		return dims.Col, nil
	case "time":
		return dims.Time, nil
	case "spectrum":
		return dims.Spectrum, nil
	case "energy":
		return dims.Energy, nil
	default:
		return dims.Invalid, fmt.Errorf("unknown dimension label %q", s)
	}
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func makeCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: scippcli make <label> <v0,v1,...>")
	}
	label, err := parseLabel(args[0])
	if err != nil {
		return err
	}
	values, err := parseFloats(args[1])
	if err != nil {
		return err
	}
	d := dims.New([]dims.Dim{label}, []int{len(values)})
	v := variable.NewFloat64("", unit.Dimensionless(), d, values)
	printVariable(v)
	return nil
}

func sliceCommand(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: scippcli slice <label> <begin> <end> <v0,v1,...>")
	}
	label, err := parseLabel(args[0])
	if err != nil {
		return err
	}
	begin, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	end, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	values, err := parseFloats(args[3])
	if err != nil {
		return err
	}
	d := dims.New([]dims.Dim{label}, []int{len(values)})
	v := variable.NewFloat64("", unit.Dimensionless(), d, values)
	s, err := v.Slice(label, begin, end)
	if err != nil {
		return err
	}
	printVariable(s)
	return nil
}

func addCommand(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: scippcli add <label> <a0,a1,...> <b0,b1,...>")
	}
	label, err := parseLabel(args[0])
	if err != nil {
		return err
	}
	a, err := parseFloats(args[1])
	if err != nil {
		return err
	}
	b, err := parseFloats(args[2])
	if err != nil {
		return err
	}
	if len(a) != len(b) {
		return fmt.Errorf("operands have different lengths: %d vs %d", len(a), len(b))
	}
	d := dims.New([]dims.Dim{label}, []int{len(a)})
	va := variable.NewFloat64("", unit.Dimensionless(), d, a)
	vb := variable.NewFloat64("", unit.Dimensionless(), d, b)
	sum, err := va.Add(vb)
	if err != nil {
		return err
	}
	printVariable(sum)
	return nil
}

func rebinCommand(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: scippcli rebin <label> <old_edges> <new_edges> <data>")
	}
	label, err := parseLabel(args[0])
	if err != nil {
		return err
	}
	oldCoord, err := parseFloats(args[1])
	if err != nil {
		return err
	}
	newCoord, err := parseFloats(args[2])
	if err != nil {
		return err
	}
	data, err := parseFloats(args[3])
	if err != nil {
		return err
	}
	if len(data) != len(oldCoord)-1 {
		return fmt.Errorf("data length %d does not match old_edges length-1 %d", len(data), len(oldCoord)-1)
	}
	d := dims.New([]dims.Dim{label}, []int{len(data)})
	old := storage.NewFloat64(d, data)
	out, err := binning.Rebin(context.Background(), old, label, oldCoord, newCoord)
	if err != nil {
		return err
	}
	vals := make([]float64, out.Len())
	for i := range vals {
		vals[i] = out.F64(i)
	}
	fmt.Println(formatFloats(vals))
	return nil
}

func describeCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: scippcli describe <label> <v0,v1,...>")
	}
	label, err := parseLabel(args[0])
	if err != nil {
		return err
	}
	values, err := parseFloats(args[1])
	if err != nil {
		return err
	}
	d := dims.New([]dims.Dim{label}, []int{len(values)})
	v := variable.NewFloat64("", unit.Dimensionless(), d, values)
	vals, _ := v.Float64Values()

	min, max, sum := vals[0], vals[0], 0.0
	for _, x := range vals {
		sum += x
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	mean := sum / float64(len(vals))
	size := len(vals) * 8

	fmt.Printf("count: %d\n", len(vals))
	fmt.Printf("mean:  %v\n", mean)
	fmt.Printf("min:   %v\n", min)
	fmt.Printf("max:   %v\n", max)
	fmt.Printf("size:  %s\n", humanize.Bytes(uint64(size)))
	return nil
}

func printVariable(v variable.Variable) {
	vals, err := v.Float64Values()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scippcli: %v\n", err)
		return
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("%s %s = %s\n", v.Dims(), v.Unit(), formatFloats(vals))
		return
	}
	fmt.Println(formatFloats(vals))
}

func formatFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
