package network

import (
	"net"

	"github.com/vmihailenco/msgpack/v5"
)

// Client speaks the msgpack protocol to a Server. It is not safe for
// concurrent use: responses arrive in request order.
type Client struct {
	conn net.Conn
	enc  *msgpack.Encoder
	dec  *msgpack.Decoder
}

// Dial connects to a server at addr.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		enc:  msgpack.NewEncoder(conn),
		dec:  msgpack.NewDecoder(conn),
	}, nil
}

// Query sends one statement and waits for its response.
func (c *Client) Query(query string) (*Response, error) {
	if err := c.enc.Encode(Request{Query: query}); err != nil {
		return nil, err
	}
	var resp Response
	if err := c.dec.Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Close terminates the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
