// Package tcp implements the TCP socket transport of uKV on top of the
// base package. Client connections are tuned with the socket settings of the
// ClientConfig (no delay, keep alive, buffer sizes).
package tcp
