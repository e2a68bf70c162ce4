package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var pages = []string{"/", "/quartos", "/aniversario", "/galeria", "/loja"}

type trackResult struct {
	ok             bool
	alreadyTracked bool
}

func main() {
	baseURL := "http://localhost:8080/functions/v1"
	if v := os.Getenv("LOADTEST_BASE_URL"); v != "" {
		baseURL = v
	}

	var successCount int64
	var errorCount int64
	var dedupCount int64
	var wg sync.WaitGroup

	numRequests := 1000
	concurrentWorkers := 50
	// Fewer addresses than requests so the daily dedup path is exercised too.
	distinctAddresses := 250

	startTime := time.Now()

	jobs := make(chan int, numRequests)
	results := make(chan trackResult, numRequests)

	// start workers
	for w := 0; w < concurrentWorkers; w++ {
		wg.Add(1)
		go worker(w, jobs, results, baseURL, distinctAddresses, &wg)
	}

	// send jobs
	for j := 0; j < numRequests; j++ {
		jobs <- j
	}
	close(jobs)

	wg.Wait()
	close(results)

	for result := range results {
		if !result.ok {
			atomic.AddInt64(&errorCount, 1)
			continue
		}
		atomic.AddInt64(&successCount, 1)
		if result.alreadyTracked {
			atomic.AddInt64(&dedupCount, 1)
		}
	}

	duration := time.Since(startTime)
	requestsPerSecond := float64(numRequests) / duration.Seconds()

	fmt.Println("Load Test Results:")
	fmt.Println("==================")
	fmt.Printf("Total Requests: %d\n", numRequests)
	fmt.Printf("Successful: %d\n", successCount)
	fmt.Printf("Already tracked: %d\n", dedupCount)
	fmt.Printf("Failed: %d\n", errorCount)
	fmt.Printf("Duration: %v\n", duration)
	fmt.Printf("Requests/sec: %.2f\n", requestsPerSecond)
	fmt.Printf("Success Rate: %.2f%%\n",
		float64(successCount)/float64(numRequests)*100)
}

func worker(
	id int,
	jobs <-chan int,
	results chan<- trackResult,
	baseURL string,
	distinctAddresses int,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	for j := range jobs {
		payload := map[string]string{
			"pagePath": pages[j%len(pages)],
		}

		jsonData, _ := json.Marshal(payload)

		req, err := http.NewRequest(
			"POST",
			baseURL+"/track-visitor",
			bytes.NewBuffer(jsonData),
		)
		if err != nil {
			results <- trackResult{}
			continue
		}

		n := j % distinctAddresses
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.18.%d.%d", n/256, n%256))
		req.Header.Set("User-Agent", "paradise-vista-loadtest")

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("Worker %d error: %v\n", id, err)
			results <- trackResult{}
			continue
		}

		var body struct {
			Success        bool `json:"success"`
			AlreadyTracked bool `json:"alreadyTracked"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()

		results <- trackResult{
			ok:             resp.StatusCode >= 200 && resp.StatusCode < 300 && body.Success,
			alreadyTracked: body.AlreadyTracked,
		}

		time.Sleep(10 * time.Millisecond)
	}
}
