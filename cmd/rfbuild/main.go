package main

import "github.com/TextsHQ/rust-fetch/cmd/rfbuild/internal"

func main() {
	internal.Execute()
}
