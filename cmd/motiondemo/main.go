// Command motiondemo hosts the motion demo screens in an ebiten window.
//
// Usage:
//
//	motiondemo run --screen follow
//	motiondemo run --screen slider --debug-addr :6060
//	motiondemo run --screen exit --script testdata/toggle.yaml --exit-when-done
//	motiondemo screens
package main

func main() {
	Execute()
}
