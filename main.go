// Command flexnn trains a small dense network on a labeled CSV dataset
// (label in the first column, features in the rest, MNIST-style) and then
// optionally lets the user browse individual samples against the trained
// model's predictions.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"

	"flexnn/dataset"
	"flexnn/neuralnet"
)

var (
	dataPath    = flag.String("data", "data/train.csv", "CSV file with the class label in the first column")
	hidden      = flag.Int("hidden", 10, "hidden layer width")
	lr          = flag.Float64("lr", 0.5, "learning rate")
	epochs      = flag.Int("epochs", 500, "number of full-batch training epochs")
	seed        = flag.Int64("seed", 42, "seed for weight init and dataset shuffling")
	proportions = flag.String("split", "0.8,0.2", "comma-separated split proportions, first split trains")
	browse      = flag.Bool("browse", false, "browse samples interactively after training")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	props, err := parseProportions(*proportions)
	if err != nil {
		klog.Exitf("bad -split: %v", err)
	}

	x, y, err := dataset.ReadCSVXY(*dataPath)
	if err != nil {
		klog.Exitf("loading dataset: %v", err)
	}
	rows, features := x.Dims()
	klog.Infof("loaded %s: %d samples, %d features", *dataPath, rows, features)
	dataset.Scale(x, 1.0/255.0)

	rng := rand.New(rand.NewSource(*seed))
	splits := dataset.SplitXY(x, y, props, rng)
	train := splits[0]

	numClasses := 0
	for _, label := range train.Y {
		if label+1 > numClasses {
			numClasses = label + 1
		}
	}
	net := neuralnet.NewNetwork(
		neuralnet.NewLayer(features, *hidden, neuralnet.ReLU, rng),
		neuralnet.NewLayer(*hidden, numClasses, neuralnet.Softmax, rng),
	)
	klog.Infof("network: %d -> %d relu -> %d softmax, lr=%g, epochs=%d", features, *hidden, numClasses, *lr, *epochs)

	bar := progressbar.Default(int64(*epochs), "training")
	net.OnEpoch = func(_, _ int) {
		_ = bar.Add(1)
	}
	trainX := dataset.Transposed(train.X)
	net.Train(trainX, train.Y, *lr, *epochs)
	_ = bar.Finish()

	for i, split := range splits {
		splitX := dataset.Transposed(split.X)
		predicted := net.Predict(splitX)
		target := neuralnet.OneHotEncode(split.Y, numClasses)
		fmt.Printf("split %d: %d samples, accuracy = %.4f, cross-entropy = %.4f\n",
			i, len(split.Y), net.Accuracy(splitX, split.Y), neuralnet.CrossEntropy(predicted, target))
	}

	if *browse {
		browseSamples(net, train, numClasses)
	}
}

// parseProportions parses "0.8,0.2" style split lists.
func parseProportions(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	props := make([]float64, 0, len(parts))
	for _, part := range parts {
		p, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		if p <= 0 || p > 1 {
			return nil, fmt.Errorf("proportion %g out of (0, 1]", p)
		}
		props = append(props, p)
	}
	return props, nil
}

// browseSamples reads sample indices from stdin and shows the digit next
// to the model's prediction. "s <index>" additionally writes the sample as
// a PNG next to the working directory; "q" quits.
func browseSamples(net *neuralnet.Network, split dataset.Split, numClasses int) {
	_, features := split.X.Dims()
	side := int(math.Sqrt(float64(features)))
	if side*side != features {
		klog.Warningf("%d features is not a square image, browsing disabled", features)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("enter a sample index, 's <index>' to save a PNG, or 'q' to quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" {
			return
		}
		save := false
		if rest, ok := strings.CutPrefix(line, "s "); ok {
			save = true
			line = strings.TrimSpace(rest)
		}
		index, err := strconv.Atoi(line)
		rows, _ := split.X.Dims()
		if err != nil || index < 0 || index >= rows {
			fmt.Printf("want an index in [0, %d)\n", rows)
			continue
		}

		pixels := mat.Row(nil, index, split.X)
		printDigit(pixels, side)

		column := mat.NewDense(features, 1, pixels)
		probs := net.Predict(column)
		predicted, confidence := 0, probs.At(0, 0)
		for class := 1; class < numClasses; class++ {
			if p := probs.At(class, 0); p > confidence {
				predicted, confidence = class, p
			}
		}
		fmt.Printf("label %d, predicted %d (p=%.3f)\n", split.Y[index], predicted, confidence)

		if save {
			path := fmt.Sprintf("sample_%d_label_%d.png", index, split.Y[index])
			if err := savePNG(pixels, side, path); err != nil {
				klog.Errorf("saving %s: %v", path, err)
				continue
			}
			fmt.Printf("saved %s\n", path)
		}
	}
}
