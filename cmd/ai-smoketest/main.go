// ai-smoketest runs one complaint draft through the classification
// pipeline and prints the structured result. Handy for prompt tuning
// without standing up the whole API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/janmitra/civic-complaints/src/ai/classify"
	"github.com/janmitra/civic-complaints/src/ai/gemini"
)

var (
	descFlag     = flag.String("desc", "Garbage dumped near Block A, smells bad", "Complaint description")
	locationFlag = flag.String("location", "", "Free-text location")
	wardFlag     = flag.Int("ward", 0, "Fallback ward id (citizen's registered ward)")
	imageFlag    = flag.String("image", "", "Path to a photo to attach")
	mimeFlag     = flag.String("mime", "image/jpeg", "MIME type of the photo")
	modelsFlag   = flag.String("models", "", "Comma-separated model variant override")
	timeoutFlag  = flag.Duration("timeout", 2*time.Minute, "Overall timeout")
)

func main() {
	log.SetFlags(0)
	flag.Parse()
	_ = godotenv.Load()

	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		log.Fatal("GEMINI_API_KEY is not set; export it before running the smoketest")
	}

	var models []string
	if *modelsFlag != "" {
		for _, m := range strings.Split(*modelsFlag, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
	}

	req := classify.Request{
		Description:    *descFlag,
		LocationText:   *locationFlag,
		FallbackWardID: *wardFlag,
	}
	if *imageFlag != "" {
		blob, err := os.ReadFile(*imageFlag)
		if err != nil {
			log.Fatalf("read image: %v", err)
		}
		req.Image = &classify.Image{Data: blob, MIME: *mimeFlag}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	clf := classify.New(gemini.NewClient(key), models)
	res, err := clf.Classify(ctx, req)
	if err != nil {
		log.Fatalf("classify: %v", err)
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
}
