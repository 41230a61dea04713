// Package ml provides the small model-training layer behind the analytics
// services: a deterministic train/test split, an ordinary least squares
// linear regressor, a bagged regression-tree ensemble, and the held-out
// metrics (R², MAE) reported alongside each trained model.
package ml
