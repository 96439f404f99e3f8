package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "seller_id":   {"type": "long"},
      "title":       {"type": "text"},
      "description": {"type": "text"},
      "price":       {"type": "keyword"},
      "image_url":   {"type": "keyword", "index": false}
    }
  }
}`

// ElasticIndex elasticsearch 商品索引
type ElasticIndex struct {
	client *elasticsearch.Client
	index  string
}

// New 根据配置创建索引，未启用时返回 NopIndex
func New(cfg config.SearchConfig) (Index, error) {
	if !cfg.Enabled {
		return NopIndex{}, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client failed: %w", err)
	}
	index := strings.TrimSpace(cfg.Index)
	if index == "" {
		index = "products"
	}
	return &ElasticIndex{client: client, index: index}, nil
}

// Enabled 恒为 true
func (e *ElasticIndex) Enabled() bool { return true }

// EnsureIndex 索引不存在时按映射创建
func (e *ElasticIndex) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists([]string{e.index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index failed: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	res, err = e.client.Indices.Create(e.index,
		e.client.Indices.Create.WithContext(ctx),
		e.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index failed: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return err
	}
	logger.Infow("search_index_created", "index", e.index)
	return nil
}

// IndexProduct 写入或覆盖商品文档
func (e *ElasticIndex) IndexProduct(ctx context.Context, product *models.Product) error {
	if product == nil {
		return nil
	}
	body, err := json.Marshal(NewDocument(product))
	if err != nil {
		return err
	}
	res, err := e.client.Index(e.index, bytes.NewReader(body),
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(documentID(product.ID)),
	)
	if err != nil {
		return fmt.Errorf("index product failed: %w", err)
	}
	defer res.Body.Close()
	return responseError(res)
}

// DeleteProduct 删除商品文档，文档不存在不报错
func (e *ElasticIndex) DeleteProduct(ctx context.Context, productID uint) error {
	res, err := e.client.Delete(e.index, documentID(productID), e.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product document failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return nil
	}
	return responseError(res)
}

// Search multi_match 查询标题（权重 2）与描述
func (e *ElasticIndex) Search(ctx context.Context, query string, page, pageSize int) (*Result, error) {
	if page < 1 {
		page = 1
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(query, (page-1)*pageSize, pageSize)); err != nil {
		return nil, err
	}
	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return nil, err
	}
	return decodeResult(res.Body)
}

func buildQuery(query string, from, size int) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}
}

func decodeResult(body io.Reader) (*Result, error) {
	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID uint `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response failed: %w", err)
	}
	result := &Result{Total: r.Hits.Total.Value, IDs: make([]uint, 0, len(r.Hits.Hits))}
	for _, hit := range r.Hits.Hits {
		result.IDs = append(result.IDs, hit.Source.ID)
	}
	return result, nil
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch error %s: %s", res.Status(), strings.TrimSpace(string(body)))
}
