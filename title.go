package tpsreport

import (
	"regexp"
	"strconv"
	"strings"
)

// TitleInfo classifies a benchmark run by its sample file name.
type TitleInfo struct {
	// ContractType is one of erc20, erc721, erc1155, native or multi.
	ContractType string

	// Title joins the contract prefix and the operation, e.g. "erc721Mint".
	Title string
}

// DefaultContractType is used when no known contract appears in the name.
const DefaultContractType = "multi"

// contractKinds in match priority order. Prefix is what the title starts with.
var contractKinds = []struct {
	Match  string
	Prefix string
}{
	{Match: "erc20", Prefix: "erc20"},
	{Match: "erc721", Prefix: "erc721"},
	{Match: "erc1155", Prefix: "erc1155"},
	{Match: "native", Prefix: "Native"},
}

// ClassifyTitle derives the contract type and report title from a sample
// file name. The first contract kind found as a substring wins; names with
// none fall back to DefaultContractType. The operation is Mint if the name
// contains "mint" and Transfer otherwise.
func ClassifyTitle(name string) TitleInfo {
	info := TitleInfo{ContractType: DefaultContractType}
	prefix := DefaultContractType

	for _, k := range contractKinds {
		if strings.Contains(name, k.Match) {
			info.ContractType = k.Match
			prefix = k.Prefix
			break
		}
	}

	op := "Transfer"
	if strings.Contains(name, "mint") {
		op = "Mint"
	}
	info.Title = prefix + op

	return info
}

// RunParams are the load parameters encoded in a sample file name.
type RunParams struct {
	TotalTransactions int64
	SendRate          int64
}

var runParamsPattern = regexp.MustCompile(`\.(\d+)\.(\d+)\.`)

// ExtractRunParams reads the first ".<total>.<rate>." pair from a file name,
// e.g. "ava_erc20mint.1000.50.txt". ok is false when the name carries none.
func ExtractRunParams(name string) (params RunParams, ok bool) {
	m := runParamsPattern.FindStringSubmatch(name)
	if m == nil {
		return RunParams{}, false
	}

	total, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return RunParams{}, false
	}
	rate, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return RunParams{}, false
	}

	return RunParams{TotalTransactions: total, SendRate: rate}, true
}
