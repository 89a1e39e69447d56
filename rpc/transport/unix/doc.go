// Package unix implements a transport for uKV using Unix domain sockets,
// for clients running on the same machine as the server. The server endpoint
// is the path of the socket file.
package unix
