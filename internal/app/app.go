package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "serve":
		return runServe(args[1:])
	case "mix":
		return runMix(args[1:])
	case "posts":
		return runPosts(args[1:])
	case "vocab", "vocabulary":
		return runVocab(args[1:])
	case "translate":
		return runTranslate(args[1:])
	case "languages":
		return runLanguages(args[1:])
	case "health":
		return runHealth(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "lingomix CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingomix <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  serve      Start Echo API server")
	fmt.Fprintln(os.Stderr, "  mix        Create mixed-language content from text, a file, or a URL")
	fmt.Fprintln(os.Stderr, "  posts      Mix the latest posts of a subreddit (JSON lines)")
	fmt.Fprintln(os.Stderr, "  vocab      List the teachable vocabulary of a text")
	fmt.Fprintln(os.Stderr, "  translate  Translate one word or phrase through the cache and provider pool")
	fmt.Fprintln(os.Stderr, "  languages  List enabled language pairs and level fractions")
	fmt.Fprintln(os.Stderr, "  health     Verify configuration and cache store connectivity")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"lingomix <command> -h\" for command-specific flags.")
}
