package integration

import (
	"io"
	"net/http"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
	"github.com/stacklok/string-analyzer-server/test-integration/strings-api/helpers"
)

type listResponse struct {
	Data           []analyzer.StringRecord `json:"data"`
	Count          int                     `json:"count"`
	FiltersApplied map[string]any          `json:"filters_applied"`
}

type naturalLanguageResponse struct {
	Data             []analyzer.StringRecord `json:"data"`
	Count            int                     `json:"count"`
	InterpretedQuery struct {
		Original      string         `json:"original"`
		ParsedFilters map[string]any `json:"parsed_filters"`
	} `json:"interpreted_query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func values(records []analyzer.StringRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Value)
	}
	return out
}

var _ = Describe("Strings API", Label("api"), func() {
	var serverHelper *helpers.ServerTestHelper

	BeforeEach(func() {
		serverHelper = helpers.NewServerTestHelper(ctx, "")
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	})

	AfterEach(func() {
		Expect(serverHelper.StopServer()).To(Succeed())
	})

	Context("Service endpoints", func() {
		It("should report the root message", func() {
			resp, err := serverHelper.Get("/")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body map[string]string
			helpers.DecodeJSON(resp, &body)
			Expect(body).To(HaveKeyWithValue("message", "String Analyzer Service is running"))
		})

		It("should report readiness", func() {
			resp, err := serverHelper.Get("/readiness")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			_ = resp.Body.Close()
		})
	})

	Context("String lifecycle", func() {
		It("should create, fetch and delete a string", func() {
			By("creating the string")
			resp, err := serverHelper.CreateString("Never odd or even")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			var created analyzer.StringRecord
			helpers.DecodeJSON(resp, &created)
			Expect(created.ID).To(Equal(analyzer.ContentHash("Never odd or even")))
			Expect(created.Properties.SHA256Hash).To(Equal(created.ID))
			Expect(created.Properties.Length).To(Equal(17))
			Expect(created.Properties.WordCount).To(Equal(4))
			Expect(created.Properties.IsPalindrome).To(BeFalse())
			Expect(created.CreatedAt).NotTo(BeZero())

			By("rejecting a duplicate")
			resp, err = serverHelper.CreateString("Never odd or even")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusConflict))
			_ = resp.Body.Close()

			By("fetching it by value")
			resp, err = serverHelper.GetString("Never odd or even")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var fetched analyzer.StringRecord
			helpers.DecodeJSON(resp, &fetched)
			Expect(fetched.ID).To(Equal(created.ID))
			Expect(fetched.CreatedAt.Equal(created.CreatedAt)).To(BeTrue())

			By("deleting it")
			resp, err = serverHelper.DeleteString("Never odd or even")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(BeEmpty())
			_ = resp.Body.Close()

			By("no longer finding it")
			resp, err = serverHelper.GetString("Never odd or even")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			_ = resp.Body.Close()

			resp, err = serverHelper.DeleteString("Never odd or even")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			_ = resp.Body.Close()
		})

		It("should address values that need escaping", func() {
			for _, value := range []string{"a/b", "100%", "naïve café", "what?"} {
				resp, err := serverHelper.CreateString(value)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusCreated), "creating %q", value)
				_ = resp.Body.Close()

				resp, err = serverHelper.GetString(value)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK), "fetching %q", value)

				var record analyzer.StringRecord
				helpers.DecodeJSON(resp, &record)
				Expect(record.Value).To(Equal(value))
			}
		})

		DescribeTable("should reject invalid bodies",
			func(body string) {
				resp, err := serverHelper.PostRaw([]byte(body))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

				var errResp errorResponse
				helpers.DecodeJSON(resp, &errResp)
				Expect(errResp.Error).NotTo(BeEmpty())
			},
			Entry("malformed json", `{"value":`),
			Entry("missing value", `{}`),
			Entry("empty value", `{"value":""}`),
			Entry("non-string value", `{"value":42}`),
		)
	})

	Context("Structured filtering", func() {
		BeforeEach(func() {
			for _, value := range []string{"racecar", "hello world", "Level", "a man a plan", "zebra"} {
				resp, err := serverHelper.CreateString(value)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))
				_ = resp.Body.Close()
			}
		})

		It("should list every string in insertion order without filters", func() {
			resp, err := serverHelper.ListStrings(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var list listResponse
			helpers.DecodeJSON(resp, &list)
			Expect(list.Count).To(Equal(5))
			Expect(values(list.Data)).To(Equal([]string{"racecar", "hello world", "Level", "a man a plan", "zebra"}))
			Expect(list.FiltersApplied).To(BeEmpty())
		})

		It("should combine filters and echo them back", func() {
			resp, err := serverHelper.ListStrings(url.Values{
				"is_palindrome": {"true"},
				"word_count":    {"1"},
				"min_length":    {"6"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var list listResponse
			helpers.DecodeJSON(resp, &list)
			Expect(values(list.Data)).To(Equal([]string{"racecar"}))
			Expect(list.Count).To(Equal(1))
			Expect(list.FiltersApplied).To(HaveKeyWithValue("is_palindrome", true))
			Expect(list.FiltersApplied).To(HaveKeyWithValue("word_count", BeNumerically("==", 1)))
			Expect(list.FiltersApplied).To(HaveKeyWithValue("min_length", BeNumerically("==", 6)))
		})

		It("should filter by contained character", func() {
			resp, err := serverHelper.ListStrings(url.Values{"contains_character": {"z"}})
			Expect(err).NotTo(HaveOccurred())

			var list listResponse
			helpers.DecodeJSON(resp, &list)
			Expect(values(list.Data)).To(Equal([]string{"zebra"}))
		})

		DescribeTable("should reject invalid query parameters",
			func(query url.Values) {
				resp, err := serverHelper.ListStrings(query)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				_ = resp.Body.Close()
			},
			Entry("non-boolean palindrome flag", url.Values{"is_palindrome": {"maybe"}}),
			Entry("non-integer length", url.Values{"min_length": {"five"}}),
			Entry("negative length", url.Values{"max_length": {"-1"}}),
			Entry("contradictory lengths", url.Values{"min_length": {"10"}, "max_length": {"2"}}),
			Entry("multi-character needle", url.Values{"contains_character": {"ab"}}),
		)
	})

	Context("Natural language filtering", func() {
		BeforeEach(func() {
			for _, value := range []string{"racecar", "noon", "level up", "abcdefghijkl", "zz top"} {
				resp, err := serverHelper.CreateString(value)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))
				_ = resp.Body.Close()
			}
		})

		It("should interpret single word palindromes", func() {
			resp, err := serverHelper.FilterByNaturalLanguage("all single word palindromic strings")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var nl naturalLanguageResponse
			helpers.DecodeJSON(resp, &nl)
			Expect(values(nl.Data)).To(Equal([]string{"racecar", "noon"}))
			Expect(nl.Count).To(Equal(2))
			Expect(nl.InterpretedQuery.Original).To(Equal("all single word palindromic strings"))
			Expect(nl.InterpretedQuery.ParsedFilters).To(HaveKeyWithValue("is_palindrome", true))
			Expect(nl.InterpretedQuery.ParsedFilters).To(HaveKeyWithValue("word_count", BeNumerically("==", 1)))
		})

		It("should treat longer than as a strict bound", func() {
			resp, err := serverHelper.FilterByNaturalLanguage("strings longer than 10 characters")
			Expect(err).NotTo(HaveOccurred())

			var nl naturalLanguageResponse
			helpers.DecodeJSON(resp, &nl)
			Expect(values(nl.Data)).To(Equal([]string{"abcdefghijkl"}))
			Expect(nl.InterpretedQuery.ParsedFilters).To(HaveKeyWithValue("min_length", BeNumerically("==", 11)))
		})

		It("should understand the letter z", func() {
			resp, err := serverHelper.FilterByNaturalLanguage("strings containing the letter z")
			Expect(err).NotTo(HaveOccurred())

			var nl naturalLanguageResponse
			helpers.DecodeJSON(resp, &nl)
			Expect(values(nl.Data)).To(Equal([]string{"zz top"}))
			Expect(nl.InterpretedQuery.ParsedFilters).To(HaveKeyWithValue("contains_character", "z"))
		})

		DescribeTable("should reject queries it cannot interpret",
			func(query string) {
				resp, err := serverHelper.FilterByNaturalLanguage(query)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

				var errResp errorResponse
				helpers.DecodeJSON(resp, &errResp)
				Expect(errResp.Error).NotTo(BeEmpty())
			},
			Entry("unrelated text", "show me something nice"),
			Entry("empty query", ""),
		)
	})
})

var _ = Describe("Configured server", Label("config"), func() {
	var (
		tempDir      string
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("strings-api-config-")
		configFile := helpers.WriteConfigYAML(tempDir, "analyzer-it", []string{"https://app.example.com"}, true)

		serverHelper = helpers.NewServerTestHelper(ctx, configFile)
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	})

	AfterEach(func() {
		Expect(serverHelper.StopServer()).To(Succeed())
		cleanupTempDir(tempDir)
	})

	It("should expose prometheus metrics for handled requests", func() {
		resp, err := serverHelper.CreateString("metrics")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		_ = resp.Body.Close()

		resp, err = serverHelper.Get("/metrics")
		Expect(err).NotTo(HaveOccurred())
		defer func() {
			_ = resp.Body.Close()
		}()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("string_analyzer_operations_total"))
		Expect(string(body)).To(ContainSubstring("string_analyzer_http_requests_total"))
	})

	It("should answer CORS preflight requests for allowed origins", func() {
		req, err := http.NewRequest(http.MethodOptions, serverHelper.GetBaseURL()+"/strings", nil)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
	})
})
