// Command jobboardctl browses and edits the job board from a terminal.
package main

func main() {
	Execute()
}
