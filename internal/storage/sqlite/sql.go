package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS restaurants (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    address TEXT,
    url TEXT,
    location TEXT,
    listed_in_city TEXT,
    cuisines TEXT,
    rest_type TEXT,
    rate REAL,
    cost_for_two INTEGER,
    votes INTEGER,
    online_order INTEGER NOT NULL DEFAULT 0,
    book_table INTEGER NOT NULL DEFAULT 0,
    phone TEXT,
    dish_liked TEXT,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_restaurants_location ON restaurants(location);
CREATE INDEX IF NOT EXISTS idx_restaurants_listed_in_city ON restaurants(listed_in_city);
CREATE INDEX IF NOT EXISTS idx_restaurants_rate ON restaurants(rate);
CREATE INDEX IF NOT EXISTS idx_restaurants_cost_for_two ON restaurants(cost_for_two);
CREATE INDEX IF NOT EXISTS idx_restaurants_rest_type ON restaurants(rest_type);
CREATE INDEX IF NOT EXISTS idx_restaurants_cuisines ON restaurants(cuisines);
CREATE INDEX IF NOT EXISTS idx_restaurants_online_order ON restaurants(online_order);
CREATE INDEX IF NOT EXISTS idx_restaurants_book_table ON restaurants(book_table);
`

const selectCols = `id, name, address, url, location, listed_in_city, cuisines, rest_type,
rate, cost_for_two, votes, online_order, book_table, phone, dish_liked, created_at`

const insertPrefix = `INSERT INTO restaurants
  (name, address, url, location, listed_in_city, cuisines, rest_type,
   rate, cost_for_two, votes, online_order, book_table, phone, dish_liked)
VALUES `
