package toolchain

import "fmt"

// NotInstalledError reports an operation that needs an installed toolchain.
type NotInstalledError struct {
	Name string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("toolchain '%s' is not installed", e.Name)
}

// InvalidCustomOperationError reports a custom-only operation on a
// distribution toolchain.
type InvalidCustomOperationError struct {
	Name string
}

func (e *InvalidCustomOperationError) Error() string {
	return fmt.Sprintf("invalid custom toolchain name: '%s'", e.Name)
}

// BadInstallerTypeError reports an installer with an unsupported extension.
type BadInstallerTypeError struct {
	Ext string
}

func (e *BadInstallerTypeError) Error() string {
	return fmt.Sprintf("invalid extension for installer: '%s'", e.Ext)
}

// BinaryNotFoundError reports a binary missing from a toolchain once the
// search path fallback is exhausted.
type BinaryNotFoundError struct {
	Toolchain string
	Binary    string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("toolchain '%s' does not have the binary `%s`", e.Toolchain, e.Binary)
}
