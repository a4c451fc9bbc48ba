//go:build !unix

package sorter

func isEXDEV(error) bool { return false }
