// Command vst2host loads VST 2.x plugins, inspects them and runs raw audio
// through a chain of them.
package main

func main() {
	Execute()
}
