package network

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads the text network-file format from spec §6: blank and
// '#'-prefixed lines are ignored; every other line is
// "NAME : label1 label2 … ; labelA labelB …", the part before ';'
// naming IN bonds and the part after naming OUT bonds. The
// distinguished entry named TOUT defines the desired output
// ordering/split rather than a tensor slot, and is returned separately.
func Parse(r io.Reader) ([]LabelPattern, *TOut, error) {
	var patterns []LabelPattern
	var tout *TOut

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, in, out, err := parseLine(line)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %v", ErrInvalidNetwork, lineNo, err)
		}
		if name == "TOUT" {
			if tout != nil {
				return nil, nil, fmt.Errorf("%w: line %d: duplicate TOUT entry", ErrInvalidNetwork, lineNo)
			}
			tout = &TOut{In: in, Out: out}
			continue
		}
		patterns = append(patterns, LabelPattern{Name: name, In: in, Out: out})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("network: reading network file: %w", err)
	}
	if len(patterns) == 0 {
		return nil, nil, fmt.Errorf("%w: network file declares no tensors", ErrInvalidNetwork)
	}
	return patterns, tout, nil
}

func parseLine(line string) (name string, in, out []int32, err error) {
	nameAndRest := strings.SplitN(line, ":", 2)
	if len(nameAndRest) != 2 {
		return "", nil, nil, fmt.Errorf("missing ':' separating name from labels: %q", line)
	}
	name = strings.TrimSpace(nameAndRest[0])
	if name == "" {
		return "", nil, nil, fmt.Errorf("empty tensor name: %q", line)
	}

	parts := strings.SplitN(nameAndRest[1], ";", 2)
	in, err = parseLabels(parts[0])
	if err != nil {
		return "", nil, nil, fmt.Errorf("IN labels: %w", err)
	}
	if len(parts) == 2 {
		out, err = parseLabels(parts[1])
		if err != nil {
			return "", nil, nil, fmt.Errorf("OUT labels: %w", err)
		}
	}
	return name, in, out, nil
}

func parseLabels(field string) ([]int32, error) {
	fields := strings.Fields(field)
	if len(fields) == 0 {
		return nil, nil
	}
	labels := make([]int32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("label %q is not an integer", f)
		}
		labels[i] = int32(v)
	}
	return labels, nil
}
