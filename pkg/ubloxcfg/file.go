package ubloxcfg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ErrSyntax is returned for malformed configuration file lines.
var ErrSyntax = errors.New("syntax error")

// config collects key/value pairs in order of first appearance.
type config struct {
	kvs   []KeyVal
	index map[uint32]int
}

func (c *config) set(id uint32, v Value) {
	if c.index == nil {
		c.index = make(map[uint32]int)
	}
	if i, ok := c.index[id]; ok {
		c.kvs[i].Value = v
		return
	}
	c.index[id] = len(c.kvs)
	c.kvs = append(c.kvs, KeyVal{ID: id, Value: v})
}

func (c *config) setString(key, value string) error {
	item, err := Lookup(key)
	if err != nil {
		return err
	}
	v, err := ValueFromString(item, value)
	if err != nil {
		return err
	}
	c.set(item.ID, v)
	return nil
}

// ParseConfig reads a configuration in the text format. Each line holds one
// of the following, comments start with "#":
//
//	<key> <value>                   CFG-NAVSPG-DYNMODEL AUTOMOT
//	<ports> baudrate <baudrate>     UART1,UART2 baudrate 115200
//	<ports> inprot <protocols>      UART1 inprot UBX,NMEA,!RTCM3X
//	<ports> outprot <protocols>     USB outprot UBX
//	<ports> <message> <rate>        UART1,USB UBX-NAV-PVT 1
//
// When a key appears more than once, the last value wins and the item keeps
// the position of its first appearance.
func ParseConfig(r io.Reader) ([]KeyVal, error) {
	var cfg config
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		// strip comments and whitespace
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		// parse line
		err := parseLine(&cfg, fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cfg.kvs, nil
}

func parsePorts(str string) ([]string, bool) {
	ports := strings.Split(strings.ToUpper(str), ",")
	for _, port := range ports {
		if !lo.Contains(Ports, port) {
			return nil, false
		}
	}
	return lo.Uniq(ports), true
}

func parseLine(cfg *config, fields []string) error {
	// handle key/value
	if len(fields) == 2 {
		return cfg.setString(fields[0], fields[1])
	}

	// all other forms start with a port list
	if len(fields) != 3 {
		return fmt.Errorf("%w: expected 2 or 3 fields, got %d", ErrSyntax, len(fields))
	}
	ports, ok := parsePorts(fields[0])
	if !ok {
		return fmt.Errorf("%w: bad port list %q", ErrSyntax, fields[0])
	}

	switch strings.ToLower(fields[1]) {
	case "baudrate":
		for _, port := range ports {
			if !strings.HasPrefix(port, "UART") {
				return fmt.Errorf("%w: port %s has no baudrate", ErrSyntax, port)
			}
			err := cfg.setString("CFG-"+port+"-BAUDRATE", fields[2])
			if err != nil {
				return err
			}
		}
	case "inprot", "outprot":
		dir := strings.ToUpper(fields[1])
		for _, prot := range strings.Split(fields[2], ",") {
			enable := "true"
			if strings.HasPrefix(prot, "!") {
				enable, prot = "false", prot[1:]
			}
			prot = strings.ToUpper(prot)
			if !lo.Contains(Protocols, prot) {
				return fmt.Errorf("%w: unknown protocol %q", ErrSyntax, prot)
			}
			for _, port := range ports {
				err := cfg.setString(fmt.Sprintf("CFG-%s%s-%s", port, dir, prot), enable)
				if err != nil {
					return err
				}
			}
		}
	default:
		for _, port := range ports {
			item, err := MsgOutItem(fields[1], port)
			if err != nil {
				return err
			}
			v, err := ValueFromString(item, fields[2])
			if err != nil {
				return err
			}
			cfg.set(item.ID, v)
		}
	}

	return nil
}

// ParseYAMLConfig reads a configuration given as a YAML mapping of item names
// (or hex key ids) to values. The mapping order is kept.
func ParseYAMLConfig(data []byte) ([]KeyVal, error) {
	// decode document
	var doc yaml.Node
	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, err
	}

	// handle empty document
	if len(doc.Content) == 0 {
		return nil, nil
	}

	// check mapping
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping", ErrSyntax, root.Line)
	}

	// parse pairs
	var cfg config
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %w: value of %s is not a scalar", value.Line, ErrSyntax, key.Value)
		}
		err = cfg.setString(key.Value, value.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", key.Line, err)
		}
	}

	return cfg.kvs, nil
}

// LoadConfig parses configuration data, using the YAML format for files
// ending in ".yaml" or ".yml" and the text format otherwise.
func LoadConfig(name string, data []byte) ([]KeyVal, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAMLConfig(data)
	default:
		return ParseConfig(bytes.NewReader(data))
	}
}

// WriteConfig writes the key/value pairs in the text format. Unless verbose
// is false, every line carries the item title as a comment.
func WriteConfig(w io.Writer, kvs []KeyVal, verbose bool) error {
	// determine name width
	width := 0
	for _, kv := range kvs {
		item, err := itemFor(kv.ID)
		if err != nil {
			return err
		}
		width = max(width, len(item.Name))
	}

	// write lines
	for _, kv := range kvs {
		item, _ := itemFor(kv.ID)
		line := fmt.Sprintf("%-*s %s", width, item.Name, FormatValue(item, kv.Value))
		if verbose && item.Title != "" {
			line = fmt.Sprintf("%-*s # %s", width+24, line, item.Title)
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(line, " "))
		if err != nil {
			return err
		}
	}

	return nil
}
