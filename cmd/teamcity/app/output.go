package app

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
)

// printResponse writes the body of resp to stdout, filtered by the --query
// gjson path when one is set. A non-2xx status additionally prints a status
// line on stderr and returns errStatus.
func (o *GlobalOptions) printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if !success(resp.StatusCode) {
		o.printStatus(resp)
		writeBody(o.stdout, body)
		return errStatus
	}

	if o.query == "" {
		writeBody(o.stdout, body)
		return nil
	}

	if !gjson.ValidBytes(body) {
		return fmt.Errorf("--query needs a JSON body, got %q", resp.Header.Get("Content-Type"))
	}

	res := gjson.GetBytes(body, o.query)
	if !res.Exists() {
		return fmt.Errorf("query %q matched nothing", o.query)
	}

	fmt.Fprintln(o.stdout, res.String())

	return nil
}

// printStatus writes "<METHOD> <URL>: <code> <text>" to stderr, yellow for
// client errors and red otherwise.
func (o *GlobalOptions) printStatus(resp *http.Response) {
	c := color.New(color.FgRed, color.Bold)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		c = color.New(color.FgYellow, color.Bold)
	}

	target := ""
	if resp.Request != nil {
		target = resp.Request.Method + " " + resp.Request.URL.String() + ": "
	}

	c.Fprintf(o.stderr, "%s%s\n", target, resp.Status)
}

func writeBody(w io.Writer, body []byte) {
	if len(body) == 0 {
		return
	}

	fmt.Fprint(w, string(body))
	if !strings.HasSuffix(string(body), "\n") {
		fmt.Fprintln(w)
	}
}
