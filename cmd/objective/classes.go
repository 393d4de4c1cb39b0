package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/objective/object"
)

// handleClassesCommand prints the registered classes as a tree.
func handleClassesCommand() {
	printTree(os.Stdout, object.ObjectClass, 0)
}

func printTree(w io.Writer, c *object.Class, depth int) {
	fmt.Fprintf(w, "%s%s (%d slots, %d instance vars)\n",
		strings.Repeat("  ", depth), c.Name, c.InterfaceSize(), c.InstanceSize())
	for _, sub := range object.Classes.Subclasses(c) {
		printTree(w, sub, depth+1)
	}
}

// handleDescribeCommand prints a class's dispatch table, naming the class
// that introduced each slot.
func handleDescribeCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: objective describe <Class>")
		os.Exit(1)
	}
	if err := describeClass(os.Stdout, args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func describeClass(w io.Writer, name string) error {
	c := object.Classes.Lookup(name)
	if c == nil {
		return fmt.Errorf("unknown class: %s", name)
	}

	fmt.Fprintf(w, "%s", c.Name)
	for _, a := range c.Superclasses() {
		fmt.Fprintf(w, " : %s", a.Name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "\nSlots:")
	for i, slot := range c.SlotNames() {
		owner := c.SlotOwner(object.Selector(i))
		fmt.Fprintf(w, "  %3d  %-34s %s\n", i, slot, owner.Name)
	}

	fmt.Fprintln(w, "\nInstance variables:")
	names := c.AllInstVarNames()
	if len(names) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for i, ivar := range names {
		fmt.Fprintf(w, "  %3d  %s\n", i, ivar)
	}
	return nil
}
