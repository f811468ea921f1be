// Command fetchvocab downloads the GPT-2 vocab.json/merges.txt export that
// vocab/io.LoadGPT2File consumes, the same two files the teacher's demo
// downloader fetched, into testdata/gpt2 for local use by cmd/tokendemo.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

var files = map[string]string{
	"vocab.json": "https://huggingface.co/openai-community/gpt2/resolve/main/vocab.json",
	"merges.txt": "https://huggingface.co/openai-community/gpt2/resolve/main/merges.txt",
}

func download(url, destPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	if n == 0 {
		return fmt.Errorf("download %s: got 0 bytes", url)
	}
	return nil
}

func main() {
	targetDir := filepath.Join("testdata", "gpt2")
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", targetDir, err)
		os.Exit(1)
	}

	for name, url := range files {
		destPath := filepath.Join(targetDir, name)
		fmt.Printf("-> downloading %s\n", name)
		if err := download(url, destPath); err != nil {
			fmt.Fprintf(os.Stderr, "error downloading %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	fmt.Println("done. files in testdata/gpt2/")
}
