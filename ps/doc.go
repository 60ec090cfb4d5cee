// Package ps reads and writes row sets.
//
// Rows are serialized as CSV or JSON and can live on local disk, behind
// HTTP, in S3 or in a git repository.
//
// # Reading
//
//	rows, err := ps.ReadFile(ctx, "data/users.csv", ps.Options{})
//	rows, err := ps.ReadFile(ctx, "s3://bucket/users.json", ps.Options{
//	    S3: ps.S3Config{Region: "eu-west-1"},
//	})
//	rows, err := ps.ReadFile(ctx, "git+https://github.com/org/data.git//users.csv@main", ps.Options{})
//
// Input is decoded to UTF-8 first: byte order marks select UTF-8 or UTF-16,
// invalid UTF-8 is read as Windows-1252. Inputs containing NUL bytes and no
// byte order mark fail with ErrUnknownEncoding. Options.MaxBytes rejects
// larger inputs with ErrFileTooLarge.
//
// CSV cells that look like numbers become numbers and true/false become
// booleans. JSON documents are flattened: nested objects produce
// "parent.child" columns and arrays produce "key[i]" columns.
//
// # Writing
//
//	err := ps.WriteFile(ctx, "out/users.json", rows, ps.Options{})
//
// Writing is supported for local paths and S3. S3 objects are uploaded when
// the writer is closed.
package ps
