package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// sendmsg drives the engine from a terminal without a webhook transport:
// each stdin line is posted to /api/command as the given sender.
func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	from := flag.String("from", "+15550100", "sender identity")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	fmt.Printf("sending as %s (empty line shows the menu, Ctrl-D quits)\n", *from)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		reply, err := sendCommand(client, *baseURL, *from, scanner.Text())
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(reply)
	}
}

func sendCommand(client *http.Client, baseURL, sender, text string) (string, error) {
	payload, _ := json.Marshal(map[string]string{
		"sender": sender,
		"text":   text,
	})

	resp, err := client.Post(baseURL+"/api/command", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}
