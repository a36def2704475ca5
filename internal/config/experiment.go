package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"summarylab/internal/domain"
)

// Variant is one experiment arm. Routed variants carry an endpoint, direct
// variants carry a prompt; both share the model name where one is known.
type Variant struct {
	EndpointURL    string
	PromptTemplate string
	ModelName      string
}

// Experiment is the immutable experiment configuration loaded at startup.
type Experiment struct {
	Routed       [2]Variant
	Direct       [2]Variant
	ServingToken string
}

// RoutedVariant returns the routed-mode variant for the group.
func (e Experiment) RoutedVariant(g domain.Group) Variant {
	return e.Routed[g]
}

// DirectVariant returns the direct-mode variant for the group.
func (e Experiment) DirectVariant(g domain.Group) Variant {
	return e.Direct[g]
}

type experimentDocument struct {
	Summarization struct {
		Endpoint1 string `json:"endpoint1"`
		Endpoint2 string `json:"endpoint2"`
		Token     string `json:"token"`
	} `json:"exp_summarization"`
	DirectSummarization struct {
		Prompt1   string `json:"prompt1"`
		Prompt2   string `json:"prompt2"`
		ModelName string `json:"model_name"`
	} `json:"exp_direct_summarization"`
}

// LoadExperiment reads the experiment document and the prompt files it names.
// A non-empty servingToken overrides the token in the document.
func LoadExperiment(path string, servingToken string) (Experiment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("read experiment config: %w", err)
	}

	var doc experimentDocument
	if err = json.Unmarshal(raw, &doc); err != nil {
		return Experiment{}, fmt.Errorf("decode experiment config: %w", err)
	}

	routed := doc.Summarization
	if strings.TrimSpace(routed.Endpoint1) == "" || strings.TrimSpace(routed.Endpoint2) == "" {
		return Experiment{}, errors.New("endpoint URL not found in experiment config")
	}

	direct := doc.DirectSummarization
	if strings.TrimSpace(direct.Prompt1) == "" || strings.TrimSpace(direct.Prompt2) == "" {
		return Experiment{}, errors.New("prompt file not found in experiment config")
	}
	modelName := strings.TrimSpace(direct.ModelName)
	if modelName == "" {
		return Experiment{}, errors.New("model_name not found in experiment config")
	}

	prompt1, err := LoadPrompt(direct.Prompt1)
	if err != nil {
		return Experiment{}, err
	}
	prompt2, err := LoadPrompt(direct.Prompt2)
	if err != nil {
		return Experiment{}, err
	}

	token := strings.TrimSpace(servingToken)
	if token == "" {
		token = strings.TrimSpace(routed.Token)
	}

	return Experiment{
		Routed: [2]Variant{
			{EndpointURL: strings.TrimSpace(routed.Endpoint1)},
			{EndpointURL: strings.TrimSpace(routed.Endpoint2)},
		},
		Direct: [2]Variant{
			{PromptTemplate: prompt1, ModelName: modelName},
			{PromptTemplate: prompt2, ModelName: modelName},
		},
		ServingToken: token,
	}, nil
}

// LoadPrompt returns the first line of a prompt file.
func LoadPrompt(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open prompt file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !scanner.Scan() {
		if err = scanner.Err(); err != nil {
			return "", fmt.Errorf("read prompt file: %w", err)
		}
		return "", fmt.Errorf("prompt file is empty: %s", path)
	}

	prompt := strings.TrimSpace(scanner.Text())
	if prompt == "" {
		return "", fmt.Errorf("prompt file starts with an empty line: %s", path)
	}

	return prompt, nil
}
