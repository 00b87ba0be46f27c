// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command vertexai sends a prompt to a Gemini model through Vertex AI in Firebase and prints the
// response.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"

	firebase "firebase.google.com/go/vertexai"
	"firebase.google.com/go/vertexai/errorutils"
	"firebase.google.com/go/vertexai/ptr"
	"firebase.google.com/go/vertexai/vertexai"
)

type options struct {
	ProjectID   string        `long:"project" env:"FIREBASE_PROJECT_ID" description:"Google Cloud project ID"`
	Location    string        `long:"location" env:"VERTEXAI_LOCATION" default:"us-central1" description:"Vertex AI location"`
	Model       string        `long:"model" env:"VERTEXAI_MODEL" default:"gemini-2.0-flash" description:"Model name"`
	APIKey      string        `long:"api-key" env:"GEMINI_API_KEY" description:"Use the Gemini Developer API with this key"`
	Timeout     time.Duration `long:"timeout" default:"180s" description:"Request timeout"`
	Stream      bool          `long:"stream" description:"Print the response as it is generated"`
	CountTokens bool          `long:"count-tokens" description:"Count the prompt tokens instead of generating content"`
	Temperature float32       `long:"temperature" description:"Sampling temperature, between 0 and 2. Model default when unset"`
	MaxTokens   int           `long:"max-output-tokens" description:"Maximum number of generated tokens. Model default when 0"`
	LogLevel    string        `long:"log-level" env:"LOG_LEVEL" default:"warning" description:"Log level"`
	LogFile     string        `long:"log-file" env:"LOG_FILE" description:"Also write logs to this file, rotated at 50MB"`

	Args struct {
		Prompt []string `positional-arg-name:"PROMPT" required:"1"`
	} `positional-args:"yes"`

	temperatureSet bool
}

// generationConfig returns the generation parameters set on the command line, or nil.
func (o *options) generationConfig() *vertexai.GenerationConfig {
	if !o.temperatureSet && o.MaxTokens == 0 {
		return nil
	}
	config := &vertexai.GenerationConfig{MaxOutputTokens: o.MaxTokens}
	if o.temperatureSet {
		config.Temperature = ptr.Float32(o.Temperature)
	}
	return config
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	opts.temperatureSet = parser.FindOptionByLongName("temperature").IsSet()

	if err := configureLogger(opts.LogLevel, opts.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(context.Background(), &opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func configureLogger(level, file string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if file != "" {
		logrus.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     30,
		}))
	} else {
		logrus.SetOutput(os.Stderr)
	}
	return nil
}

func run(ctx context.Context, opts *options, out io.Writer) error {
	config := &firebase.Config{
		ProjectID: opts.ProjectID,
		Location:  opts.Location,
		APIKey:    opts.APIKey,
		Logger:    logrus.StandardLogger(),
	}
	app, err := firebase.NewApp(ctx, config)
	if err != nil {
		return err
	}

	client, err := app.VertexAI(ctx, opts.Location)
	if err != nil {
		return err
	}

	modelOpts := []vertexai.ModelOption{
		vertexai.WithRequestOptions(vertexai.RequestOptions{Timeout: opts.Timeout}),
	}
	if config := opts.generationConfig(); config != nil {
		modelOpts = append(modelOpts, vertexai.WithGenerationConfig(config))
	}
	model := client.GenerativeModel(opts.Model, modelOpts...)
	prompt := vertexai.TextPart{Text: strings.Join(opts.Args.Prompt, " ")}
	logrus.WithFields(logrus.Fields{
		"model":    opts.Model,
		"location": client.Location(),
	}).Debug("Sending prompt")

	switch {
	case opts.CountTokens:
		resp, err := model.CountTokens(ctx, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Total tokens: %d\n", resp.TotalTokens)
		return nil

	case opts.Stream:
		for resp, err := range model.GenerateContentStream(ctx, prompt) {
			if err != nil {
				return err
			}
			if err := printResponse(out, resp); err != nil {
				return err
			}
		}
		return nil

	default:
		resp, err := model.GenerateContent(ctx, prompt)
		if err != nil {
			return err
		}
		return printResponse(out, resp)
	}
}

func printResponse(out io.Writer, resp *vertexai.GenerateContentResponse) error {
	text, err := resp.Text()
	if err != nil {
		return err
	}
	if text != "" {
		fmt.Fprintln(out, text)
	}

	calls, err := resp.FunctionCalls()
	if err != nil {
		return err
	}
	for _, fc := range calls {
		fmt.Fprintf(out, "Function call %s: %s(%v)\n", fc.ID, fc.Name, fc.Args)
	}
	return nil
}

func describeError(err error) string {
	switch {
	case errorutils.IsInvalidAPIKey(err):
		return fmt.Sprintf("The API key was rejected: %v", err)
	case errorutils.IsPromptBlocked(err):
		msg := err.Error()
		if resp := errorutils.ErrorResponse(err); resp != nil && resp.PromptFeedback != nil &&
			resp.PromptFeedback.BlockReasonMessage != "" {
			msg += " (" + resp.PromptFeedback.BlockReasonMessage + ")"
		}
		return msg
	case errorutils.IsResponseStopped(err):
		msg := err.Error()
		if resp := errorutils.ErrorResponse(err); resp != nil {
			if text, terr := resp.Text(); terr == nil && text != "" {
				msg += "\nPartial response: " + text
			}
		}
		return msg
	case errorutils.IsRequestTimeout(err):
		return fmt.Sprintf("Timed out: %v. Try a longer --timeout.", err)
	case errorutils.IsInvalidLocation(err):
		return fmt.Sprintf("%v. Check --location.", err)
	case errorutils.IsServiceDisabled(err):
		return fmt.Sprintf("The Vertex AI in Firebase API is disabled for this project: %v", err)
	case errorutils.IsUnsupportedUserLocation(err):
		return err.Error()
	default:
		if code := errorutils.Code(err); code != "" {
			return fmt.Sprintf("%s: %v", code, err)
		}
		return err.Error()
	}
}
