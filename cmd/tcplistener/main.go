package main

import (
	"flag"
	"fmt"
	"log"
	"net"

	"tinyserver/internal/config"
	"tinyserver/internal/request"
)

func main() {
	addr := flag.String("addr", config.DefaultAddr, "address to listen on")
	size := flag.Int("buffer-size", config.DefaultBufferSize, "read buffer size in bytes")
	flag.Parse()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Listening to TCP connections on %s ...\n", ln.Addr())

	buf := make([]byte, *size)
	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("Could not accept conn: %s\n", err)
			continue
		}

		fmt.Println("Connection accepted!")
		printRequest(conn, buf)
		conn.Close()
		fmt.Println("Connection closed")
	}
}

func printRequest(conn net.Conn, buf []byte) {
	n, err := conn.Read(buf)
	if err != nil {
		log.Printf("Could not read: %s\n", err)
		return
	}

	req, err := request.Parse(buf[:n])
	if err != nil {
		fmt.Printf("Parse error: %v\n", err)
		return
	}

	fmt.Printf("Request line:\n- Method: %v\n- Path: %v\n", req.Method(), req.Path())

	qs, ok := req.QueryString()
	if !ok {
		return
	}

	fmt.Printf("Query:\n")
	for _, key := range qs.Keys() {
		v, _ := qs.Get(key)
		switch v := v.(type) {
		case request.Single:
			fmt.Printf("- %s: %s\n", key, string(v))
		case request.Multiple:
			fmt.Printf("- %s: %q\n", key, []string(v))
		}
	}
}
