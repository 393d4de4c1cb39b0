package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/chazu/objective/archive"
	"github.com/chazu/objective/foundation"
	"github.com/chazu/objective/object"
)

// handleArchiveCommand archives an Array of Strings built from words, prints
// the encoding, and decodes it again.
func handleArchiveCommand(words []string) {
	if err := archiveWords(os.Stdout, words); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func archiveWords(w io.Writer, words []string) error {
	elems := make([]*object.Object, 0, len(words))
	for _, word := range words {
		s, err := foundation.NewString(word)
		if err != nil {
			for _, e := range elems {
				object.Destroy(e)
			}
			return err
		}
		elems = append(elems, s.Object)
	}
	arr, err := foundation.NewArray(elems...)
	if err != nil {
		for _, e := range elems {
			object.Destroy(e)
		}
		return err
	}
	defer arr.DestroyWithElements()

	data, err := archive.Marshal(arr.Object)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d bytes: %s\n", len(data), hex.EncodeToString(data))

	decoded, err := archive.Unmarshal(data)
	if err != nil {
		return err
	}
	defer archive.Destroy(decoded)

	fmt.Fprintf(w, "decoded: %s\n", object.Describe(decoded))
	fmt.Fprintf(w, "equal:   %t\n", object.Equal(decoded, arr.Object))
	return nil
}
