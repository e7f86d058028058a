// Command gorunnable runs and serves the demo pipelines.
package main

func main() {
	Execute()
}
