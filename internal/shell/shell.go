// Package shell is a line-oriented front end over one workspace store.
// Each command maps to one action of the analysis workspace.
package shell

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mlops-microproject/review-workspace/internal/logger"
	"github.com/mlops-microproject/review-workspace/internal/models"
	"github.com/mlops-microproject/review-workspace/internal/scoring"
	"github.com/mlops-microproject/review-workspace/internal/workspace"
)

const prompt = "> "

const helpText = `Commands:
  add                 add an empty order and select it
  remove              remove the selected order (the last one stays)
  select N            select order N (0-based)
  set FIELD VALUE     set a field of the selected order
  unset FIELD         clear a field of the selected order
  show                print the selected order
  list                list every order
  json                print the request payload and copy it
  import JSON         replace the orders with {"order":{...}} or {"orders":[...]}
  send                score the orders
  explain             score the orders and list the risk factors
  clear               hide the results and keep editing
  new                 start a new analysis
  help                show this help
  quit                leave`

// Options tune a Shell
type Options struct {
	// MaxOrders caps add and import, 0 means no cap
	MaxOrders int
	Clipboard workspace.Clipboard
}

// Shell reads commands from in and writes results to out
type Shell struct {
	store   *workspace.Store
	opts    Options
	scanner *bufio.Scanner
	out     io.Writer
}

// New creates a shell over a fresh store
func New(in io.Reader, out io.Writer, opts Options) *Shell {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Shell{
		store:   workspace.New(),
		opts:    opts,
		scanner: scanner,
		out:     out,
	}
}

// Store exposes the underlying store
func (s *Shell) Store() *workspace.Store {
	return s.store
}

// Run processes commands until quit or end of input
func (s *Shell) Run() error {
	fmt.Fprint(s.out, prompt)
	for s.scanner.Scan() {
		input := strings.TrimSpace(s.scanner.Text())
		if input != "" && !s.Execute(input) {
			return nil
		}
		fmt.Fprint(s.out, prompt)
	}
	fmt.Fprintln(s.out)
	return s.scanner.Err()
}

// Execute runs one command line. It returns false when the shell should stop.
func (s *Shell) Execute(input string) bool {
	command, rest := splitCommand(input)

	switch command {
	case "add":
		s.handleAdd()
	case "remove":
		s.handleRemove()
	case "select":
		s.handleSelect(rest)
	case "set":
		s.handleSet(rest)
	case "unset":
		s.handleUnset(rest)
	case "show":
		s.handleShow()
	case "list":
		s.handleList()
	case "json":
		fmt.Fprintln(s.out, s.store.CopyJSON(s.opts.Clipboard))
	case "import":
		s.handleImport(rest)
	case "send":
		s.handleSend()
	case "explain":
		s.handleExplain()
	case "clear":
		s.store.ClearPredictions()
		fmt.Fprintln(s.out, "Editing")
	case "new":
		s.store.Reset()
		fmt.Fprintln(s.out, "New analysis")
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", command)
	}
	return true
}

func (s *Shell) handleAdd() {
	if s.opts.MaxOrders > 0 && s.store.Len() >= s.opts.MaxOrders {
		fmt.Fprintf(s.out, "Order limit reached (%d)\n", s.opts.MaxOrders)
		return
	}
	s.store.AddOrder()
	fmt.Fprintf(s.out, "Order %d added\n", s.store.ActiveIndex())
}

func (s *Shell) handleRemove() {
	if !s.store.RemoveActive() {
		fmt.Fprintln(s.out, "At least one order is required")
		return
	}
	fmt.Fprintf(s.out, "Removed, order %d selected\n", s.store.ActiveIndex())
}

func (s *Shell) handleSelect(rest string) {
	index, err := strconv.Atoi(rest)
	if err != nil {
		fmt.Fprintln(s.out, "Usage: select N")
		return
	}
	if err := s.store.Select(index); err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", err.Error())
		return
	}
	fmt.Fprintf(s.out, "Order %d selected\n", index)
}

func (s *Shell) handleSet(rest string) {
	field, value, ok := strings.Cut(rest, " ")
	field, value = strings.TrimSpace(field), strings.TrimSpace(value)
	if !ok || field == "" || value == "" {
		fmt.Fprintln(s.out, "Usage: set FIELD VALUE")
		return
	}
	if err := s.applyField(field, value); err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", err.Error())
		return
	}
	fmt.Fprintf(s.out, "%s updated\n", field)
}

func (s *Shell) handleUnset(rest string) {
	field := strings.TrimSpace(rest)
	if field == "" || strings.Contains(field, " ") {
		fmt.Fprintln(s.out, "Usage: unset FIELD")
		return
	}
	if err := s.store.UpdateActive(fieldPatch(field, json.RawMessage("null"))); err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", err.Error())
		return
	}
	fmt.Fprintf(s.out, "%s cleared\n", field)
}

// applyField takes VALUE as JSON when it parses, otherwise as a string.
// A bare number aimed at a text field is retried as a string.
func (s *Shell) applyField(field, value string) error {
	quoted, _ := json.Marshal(value)
	if !json.Valid([]byte(value)) {
		return s.store.UpdateActive(fieldPatch(field, quoted))
	}
	err := s.store.UpdateActive(fieldPatch(field, json.RawMessage(value)))
	if errors.Is(err, models.ErrMalformedOrder) && !strings.HasPrefix(value, `"`) {
		return s.store.UpdateActive(fieldPatch(field, quoted))
	}
	return err
}

func (s *Shell) handleShow() {
	b, err := json.MarshalIndent(s.store.Active(), "", "  ")
	if err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", err.Error())
		return
	}
	fmt.Fprintf(s.out, "Order %d of %d\n%s\n", s.store.ActiveIndex(), s.store.Len(), b)
}

func (s *Shell) handleList() {
	active := s.store.ActiveIndex()
	for i, o := range s.store.Orders() {
		marker := " "
		if i == active {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %d\t%s\t%s\t%s\n", marker, i, textOr(o.OrderID, "-"), o.OrderStatus, scoreText(o.ReviewScore))
	}
}

func (s *Shell) handleImport(rest string) {
	if rest == "" {
		fmt.Fprintln(s.out, "Usage: import JSON")
		return
	}
	records, err := workspace.ParseImportText(rest)
	if err == nil && s.opts.MaxOrders > 0 && len(records) > s.opts.MaxOrders {
		err = fmt.Errorf("too many orders: %d > %d", len(records), s.opts.MaxOrders)
	}
	if err == nil {
		err = s.store.ReplaceAll(records)
	}
	if err != nil {
		logger.Debugw("shell_import_rejected", "error", err)
		fmt.Fprintln(s.out, err.Error())
		return
	}
	fmt.Fprintf(s.out, "Imported %d orders\n", s.store.Len())
}

func (s *Shell) handleSend() {
	result := s.store.Send()
	for i, p := range result.List() {
		fmt.Fprintf(s.out, "%d\t%s\tsatisfied=%.2f\tnot_satisfied=%.2f\n", i, p.Label, p.ProbabilitySatisfied, p.ProbabilityNotSatisfied)
	}
}

func (s *Shell) handleExplain() {
	s.store.Send()
	for i, exp := range scoring.ExplainAll(s.store.BuildRequestPayload()) {
		fmt.Fprintf(s.out, "%d\t%s\trisk=%d\n", i, exp.Prediction.Label, exp.Risk)
		for _, r := range exp.Reasons {
			fmt.Fprintf(s.out, "\t%-24s +%d\t%s\t%v\n", r.Factor, r.Points, r.Impact, r.Value)
		}
	}
}

func splitCommand(input string) (string, string) {
	command, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	return strings.ToLower(command), strings.TrimSpace(rest)
}

func fieldPatch(field string, value json.RawMessage) []byte {
	b, _ := json.Marshal(map[string]json.RawMessage{field: value})
	return b
}

func textOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func scoreText(v *int) string {
	if v == nil {
		return "score=-"
	}
	return "score=" + strconv.Itoa(*v)
}
