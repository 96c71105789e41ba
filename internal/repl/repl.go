// Package repl implements the interactive shell.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kihiko-jay/mini-rdbms/internal/engine"
	"github.com/kihiko-jay/mini-rdbms/internal/sql"
)

// Start runs the interactive shell against eng, reading statements from
// stdin until .exit, .quit, exit, \q or end of input.
func Start(eng *engine.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Mini RDBMS - Interactive Shell")
	fmt.Println("Type SQL commands or .help for special commands")
	fmt.Println()

	for {
		fmt.Print("db> ")
		if !scanner.Scan() {
			fmt.Println()
			fmt.Println("Goodbye!")
			return
		}
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		switch line {
		case ".exit", ".quit", "exit", "\\q":
			fmt.Println("Goodbye!")
			return
		case ".tables":
			printTables(os.Stdout, eng)
			continue
		case ".help":
			printHelp(os.Stdout)
			continue
		}

		cmd, err := sql.Parse(line)
		if err != nil {
			fmt.Printf("SQL Error: %v\n", err)
			continue
		}

		result, err := eng.Execute(context.Background(), cmd)
		if err != nil {
			fmt.Printf("SQL Error: %v\n", err)
			continue
		}

		PrintResult(os.Stdout, result)
	}
}

// PrintResult renders one result. Row sets print as an aligned table
// with a row-count footer; statements without rows print their message.
func PrintResult(w io.Writer, res *engine.Result) {
	if res.Columns == nil {
		if res.Message != "" {
			fmt.Fprintln(w, res.Message)
		}
		return
	}

	if len(res.Rows) == 0 {
		fmt.Fprintln(w, "No rows found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header
	for i, col := range res.Columns {
		fmt.Fprintf(tw, "%s", col)
		if i < len(res.Columns)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Separator
	for i := range res.Columns {
		fmt.Fprintf(tw, "---")
		if i < len(res.Columns)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Rows
	for _, row := range res.Rows {
		for i, col := range res.Columns {
			val, ok := row.Get(col)
			if !ok {
				fmt.Fprintf(tw, "NULL")
			} else {
				fmt.Fprintf(tw, "%v", val)
			}
			if i < len(res.Columns)-1 {
				fmt.Fprintf(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n(%d row(s))\n", len(res.Rows))
}

func printTables(w io.Writer, eng *engine.Engine) {
	infos := eng.TableInfos()
	if len(infos) == 0 {
		fmt.Fprintln(w, "No tables in database.")
		return
	}

	fmt.Fprintln(w, "Tables:")
	for _, name := range eng.Tables() {
		info := infos[name]
		fmt.Fprintf(w, "  %s: %d rows\n", name, info.RowCount)
		for _, col := range info.Columns {
			fmt.Fprintf(w, "    %s\n", col)
		}
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "SQL Commands:")
	fmt.Fprintln(w, "  CREATE TABLE name (col1 TYPE CONSTRAINT, ...)")
	fmt.Fprintln(w, "  DROP TABLE name")
	fmt.Fprintln(w, "  INSERT INTO table VALUES (val1, val2, ...)")
	fmt.Fprintln(w, "  SELECT * FROM table [WHERE col=val]")
	fmt.Fprintln(w, "  SELECT col1, col2 FROM table [WHERE col=val]")
	fmt.Fprintln(w, "  UPDATE table SET col=val [WHERE col=val]")
	fmt.Fprintln(w, "  DELETE FROM table [WHERE col=val]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Special Commands:")
	fmt.Fprintln(w, "  .tables     - List all tables")
	fmt.Fprintln(w, "  .exit/.quit - Exit the shell")
	fmt.Fprintln(w, "  .help       - Show this help")
}
