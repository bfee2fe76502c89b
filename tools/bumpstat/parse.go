package main

import "strings"
import "strconv"

import "github.com/pkg/errors"
import parsec "github.com/prataprc/goparsec"

// sizes grammar, a comma separated list of block sizes, where each size
// can be repeated by a count, like "8x4,64,256x2".
//
//   sizes := item { "," item }
//   item  := INT "x" INT | INT

var ycomma = parsec.Atom(",", "COMMA")
var ytimes = parsec.Atom("x", "TIMES")

// yitem yields *parsec.Terminal for a plain size, and a list of
// [INT, TIMES, INT] nodes for a repeated size.
func yitem() parsec.Parser {
	repeated := parsec.And(nil, parsec.Int(), ytimes, parsec.Int())
	return parsec.OrdChoice(oneof, repeated, parsec.Int())
}

func oneof(ns []parsec.ParsecNode) parsec.ParsecNode {
	if len(ns) == 0 {
		return nil
	}
	return ns[0]
}

func parsesizes(text string) ([]int64, error) {
	text = strings.TrimSpace(text)
	ysizes := parsec.Kleene(nil, yitem(), ycomma)
	node, s := ysizes(parsec.NewScanner([]byte(text)))
	items, ok := node.([]parsec.ParsecNode)
	if !ok || len(items) == 0 {
		return nil, errors.Errorf("no sizes in %q", text)
	} else if !s.Endof() {
		return nil, errors.Errorf("invalid sizes %q at offset %v", text, s.GetCursor())
	}

	sizes := []int64{}
	for _, item := range items {
		size, count := int64(0), int64(1)
		var err error
		switch val := item.(type) {
		case *parsec.Terminal:
			size, err = parseint(val)
		case []parsec.ParsecNode:
			if len(val) != 3 {
				return nil, errors.Errorf("invalid size item %v", val)
			}
			if size, err = parseint(val[0].(*parsec.Terminal)); err != nil {
				break
			}
			count, err = parseint(val[2].(*parsec.Terminal))
		default:
			return nil, errors.Errorf("invalid size item %T", item)
		}
		if err != nil {
			return nil, err
		} else if size < 0 {
			return nil, errors.Errorf("size %v is negative", size)
		} else if count <= 0 {
			return nil, errors.Errorf("repeat count %v for size %v", count, size)
		}
		for ; count > 0; count-- {
			sizes = append(sizes, size)
		}
	}
	return sizes, nil
}

func parseint(t *parsec.Terminal) (int64, error) {
	n, err := strconv.ParseInt(t.Value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "size %q", t.Value)
	}
	return n, nil
}
