package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"replicaset/pkg/storage"
)

var errUsage = errors.New("usage: add|remove|has <set> <element>, list|len|snapshot <set>, merge|delta <set> <json>, keys, id")

// run reads one command per line from in and writes one reply per line to out.
// Snapshots and deltas are plain JSON so an external transport can carry them.
func run(in io.Reader, out io.Writer, store *storage.Store) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		reply, err := execute(store, line)
		if err != nil {
			slog.Warn("command failed", "command", line, "error", err)
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, reply)
	}
	return scanner.Err()
}

func execute(store *storage.Store, line string) (string, error) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "keys":
		return strings.Join(store.Keys(), " "), nil
	case "id":
		return store.ReplicaID().String(), nil
	case "list", "len", "snapshot":
		if rest == "" || strings.Contains(rest, " ") {
			return "", errUsage
		}
		switch cmd {
		case "list":
			elements, err := store.Elements(rest)
			return strings.Join(elements, " "), err
		case "len":
			n, err := store.Len(rest)
			return fmt.Sprint(n), err
		}
		data, err := store.Snapshot(rest)
		return string(data), err
	}

	key, arg, ok := strings.Cut(rest, " ")
	arg = strings.TrimSpace(arg)
	if !ok || key == "" || arg == "" {
		return "", errUsage
	}

	switch cmd {
	case "add":
		delta, err := store.Add(key, arg)
		if err != nil {
			return "", err
		}
		data, err := delta.MarshalJSON()
		return string(data), err
	case "remove":
		delta, err := store.Remove(key, arg)
		if err != nil {
			return "", err
		}
		data, err := delta.MarshalJSON()
		return string(data), err
	case "has":
		ok, err := store.Has(key, arg)
		return fmt.Sprint(ok), err
	case "merge":
		return "ok", store.MergeSnapshot(key, []byte(arg))
	case "delta":
		return "ok", store.ApplyDelta(key, []byte(arg))
	default:
		return "", errUsage
	}
}
