// Package fileutil holds the file helpers behind the content store:
// directory creation, atomic bundle copies, and chunked reads that report
// byte progress.
package fileutil
