package ply

import (
	"strconv"
	"strings"

	"github.com/gopherply/ply/ply/internal/errors"
)

const pkgHeader = "ply"

// parseHeader consumes the ASCII header per §4.2 and leaves src positioned
// at the first body byte. It panics (caught by the Reader's Recover) on any
// grammar violation.
func parseHeader(src *byteSource) *Schema {
	magic := strings.TrimSpace(src.readLine())
	errors.Assert(magic == "ply", errors.MalformedHeader, pkgHeader, "missing 'ply' magic line, got %q", magic)

	line := src.readLine()
	for strings.TrimSpace(line) == "" {
		line = src.readLine()
	}
	formatLine := strings.Fields(line)
	errors.Assert(len(formatLine) == 3 && formatLine[0] == "format",
		errors.MalformedHeader, pkgHeader, "malformed format line")

	var enc Encoding
	switch formatLine[1] {
	case "ascii":
		enc = ASCII
	case "binary_little_endian":
		enc = BinaryLE
	case "binary_big_endian":
		enc = BinaryBE
	default:
		errors.Panicf(errors.MalformedHeader, pkgHeader, "unknown format %q", formatLine[1])
	}
	errors.Assert(formatLine[2] == "1.0", errors.UnsupportedVersion, pkgHeader,
		"unsupported version %q", formatLine[2])

	schema := &Schema{Encoding: enc}
	var current *Element

	for {
		line := strings.TrimSpace(src.readLine())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "end_header":
			if current != nil {
				current.recomputeLayout()
			}
			return schema

		case "comment":
			schema.comments = append(schema.comments, strings.TrimSpace(strings.TrimPrefix(line, "comment")))

		case "obj_info":
			schema.objInfo = append(schema.objInfo, strings.TrimSpace(strings.TrimPrefix(line, "obj_info")))

		case "element":
			if current != nil {
				current.recomputeLayout()
			}
			errors.Assert(len(fields) == 3, errors.MalformedHeader, pkgHeader, "malformed element line %q", line)
			name := fields[1]
			errors.Assert(schema.FindElement(name) == InvalidIndex,
				errors.MalformedHeader, pkgHeader, "duplicate element %q", name)
			count, err := strconv.Atoi(fields[2])
			errors.Assert(err == nil && count >= 0, errors.MalformedHeader, pkgHeader,
				"invalid element count %q", fields[2])

			schema.Elements = append(schema.Elements, Element{Name: name, Count: count})
			current = &schema.Elements[len(schema.Elements)-1]

		case "property":
			errors.Assert(current != nil, errors.MalformedHeader, pkgHeader, "property outside of any element")
			prop := parsePropertyLine(fields[1:])
			current.Properties = append(current.Properties, prop)

		default:
			errors.Panicf(errors.MalformedHeader, pkgHeader, "unrecognized header line %q", line)
		}
	}
}

func parsePropertyLine(fields []string) Property {
	if len(fields) >= 1 && fields[0] == "list" {
		errors.Assert(len(fields) == 4, errors.MalformedHeader, pkgHeader, "malformed list property")
		countType, ok := parsePropertyType(fields[1])
		errors.Assert(ok, errors.MalformedHeader, pkgHeader, "unknown list count type %q", fields[1])
		itemType, ok := parsePropertyType(fields[2])
		errors.Assert(ok, errors.MalformedHeader, pkgHeader, "unknown list item type %q", fields[2])
		return Property{
			Name:           fields[3],
			Type:           itemType,
			IsList:         true,
			CountType:      countType,
			fixedListCount: -1,
		}
	}

	errors.Assert(len(fields) == 2, errors.MalformedHeader, pkgHeader, "malformed property")
	typ, ok := parsePropertyType(fields[0])
	errors.Assert(ok, errors.MalformedHeader, pkgHeader, "unknown property type %q", fields[0])
	return Property{
		Name:           fields[1],
		Type:           typ,
		fixedListCount: -1,
	}
}
