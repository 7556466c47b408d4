package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"tinyserver/internal/config"
)

func main() {
	addr := flag.String("addr", config.DefaultAddr, "server address")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Printf("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return
			}
			log.Fatal(err)
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		if err := send(*addr, line); err != nil {
			log.Printf("error: %v", err)
		}
	}
}

// send writes line as a request line and prints whatever comes back.
// The server closes the connection after one response.
func send(addr, line string) error {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}

	if _, err := conn.Write([]byte(line + "\r\n\r\n")); err != nil {
		return err
	}

	_, err = io.Copy(os.Stdout, conn)
	fmt.Println()
	return err
}
