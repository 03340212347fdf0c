// Package version holds the build information of xsd2json: the release
// version, the VCS revision and the Go toolchain it was built with.
//
// Release builds set the values with -ldflags "-X"; development builds fall
// back to the revision recorded by the Go toolchain. The CLI reports them
// through its version command and --version flag.
package version
