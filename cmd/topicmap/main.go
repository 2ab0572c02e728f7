// Command topicmap builds, inspects, queries and ships topic map artifacts.
package main

func main() {
	execute()
}
